package assist

// ErrorKind is the closed failure taxonomy for AI assist operations. Every
// failure the gateway can produce maps to exactly one kind, and every kind
// maps to one fixed user-facing message, independent of the underlying
// service's wording.
type ErrorKind string

// Failure kinds.
const (
	// MissingCredential: no API key configured; the call is never attempted.
	MissingCredential ErrorKind = "missing_credential"
	// InvalidCredential: the service rejected the configured key.
	InvalidCredential ErrorKind = "invalid_credential"
	// QuotaExceeded: rate or quota limit hit.
	QuotaExceeded ErrorKind = "quota_exceeded"
	// NetworkFailure: transport-level failure (timeout, DNS, reset).
	NetworkFailure ErrorKind = "network_failure"
	// ContentFiltered: the service declined on safety grounds, or finished
	// abnormally without usable text.
	ContentFiltered ErrorKind = "content_filtered"
	// EmptyResult: normal completion but no extractable text.
	EmptyResult ErrorKind = "empty_result"
	// ServerFailure: the service reported an internal (5xx) failure.
	ServerFailure ErrorKind = "server_failure"
	// Unknown: anything not covered above.
	Unknown ErrorKind = "unknown"
)

// userMessages holds the single fixed message shown for each kind.
var userMessages = map[ErrorKind]string{
	MissingCredential: "La clé API n'est pas configurée. Veuillez vérifier votre fichier d'environnement.",
	InvalidCredential: "La clé API utilisée est invalide ou a expiré. Veuillez vérifier votre configuration.",
	QuotaExceeded:     "Le quota de l'IA est temporairement dépassé. Veuillez réessayer dans une minute.",
	NetworkFailure:    "Problème de connexion internet. Veuillez vérifier votre réseau et réessayer.",
	ContentFiltered:   "Le contenu généré a été bloqué par les filtres de sécurité. Essayez de reformuler votre demande de manière plus professionnelle.",
	EmptyResult:       "L'IA n'a retourné aucun contenu exploitable.",
	ServerFailure:     "Les services de Google AI rencontrent actuellement des difficultés. Veuillez réessayer plus tard.",
	Unknown:           "Une erreur inattendue est survenue. Veuillez réessayer.",
}

// Message returns the fixed user-facing message for the kind.
func (k ErrorKind) Message() string {
	if msg, ok := userMessages[k]; ok {
		return msg
	}
	return userMessages[Unknown]
}

package alerting

import "printwatch/internal/models"

// Signature identifies one ongoing condition: the anomaly code plus whatever
// tells two instances apart (fan name, file name, predicate variant).
type Signature struct {
	Code    string
	Context string
}

func (s Signature) String() string {
	if s.Context == "" {
		return s.Code
	}
	return s.Code + "|" + s.Context
}

// Detection is one signature found on the current tick.
type Detection struct {
	Signature Signature
	Message   string
	Severity  models.Severity
}

func detection(code, context, message string, sev models.Severity) Detection {
	return Detection{
		Signature: Signature{Code: code, Context: context},
		Message:   message,
		Severity:  sev,
	}
}

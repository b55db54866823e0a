package report

import (
	"github.com/raysh454/folio-a11y/internal/audit"
	"github.com/raysh454/folio-a11y/internal/logging"
)

// LogGrouped writes the result to logger, one entry per finding grouped by
// severity: errors at Error, warnings at Warn and advisories at Info.
func LogGrouped(logger logging.Logger, res *audit.Result) {
	s := res.Summary()
	logger.Info("accessibility audit",
		logging.Field{Key: "id", Value: res.ID()},
		logging.Field{Key: "score", Value: res.Score()},
		logging.Field{Key: "errors", Value: s.Errors},
		logging.Field{Key: "warnings", Value: s.Warnings},
		logging.Field{Key: "info", Value: s.Info},
		logging.Field{Key: "elements", Value: res.NodeCount()})

	for _, sev := range severities {
		log := logger.Info
		switch sev {
		case audit.SeverityError:
			log = logger.Error
		case audit.SeverityWarning:
			log = logger.Warn
		}
		for _, is := range res.BySeverity(sev) {
			log(is.Message,
				logging.Field{Key: "severity", Value: sev.String()},
				logging.Field{Key: "check", Value: is.Check},
				logging.Field{Key: "selector", Value: is.Selector},
				logging.Field{Key: "guideline", Value: is.Guideline},
				logging.Field{Key: "suggestion", Value: is.Suggestion})
		}
	}
}

package cli

import (
	"errors"
	"fmt"

	"github.com/projectpulse/pulse-backend/internal/apperr"
)

func validationDetails(err error) []string {
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	out := make([]string, 0, len(verr.Details))
	for _, d := range verr.Details {
		out = append(out, fmt.Sprintf("%s: %s", d.Field, d.Message))
	}
	return out
}

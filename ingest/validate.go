package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/TFMV/forcegraph/models"
)

var validate = validator.New()

// Validate checks a scenario built outside the processors, e.g. one decoded
// straight from a request body
func Validate(s *models.Scenario) error {
	if s == nil {
		return fmt.Errorf("%w: nil scenario", ErrInvalidScenario)
	}

	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidScenario, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	seen := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		if seen[n.ID] {
			return fmt.Errorf("%w: duplicate node %s", ErrInvalidScenario, n.ID)
		}
		seen[n.ID] = true
		if (n.X == nil) != (n.Y == nil) {
			return fmt.Errorf("%w: node %s has only one coordinate", ErrInvalidScenario, n.ID)
		}
	}
	for _, e := range s.Edges {
		if !seen[e.Source] || !seen[e.Target] {
			return fmt.Errorf("%w: edge references non-existent node: %s - %s", ErrInvalidScenario, e.Source, e.Target)
		}
	}
	return nil
}

package levels

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/umbra/internal/common"
	"github.com/dmitrijs2005/umbra/internal/server/models"
)

// Source yields level definitions. Both level repositories (catalog file and
// levels table) implement it.
type Source interface {
	List(ctx context.Context) ([]models.LevelDefinition, error)
}

// Catalog maps level ids to compiled rules. It is built once and never
// modified, so it is safe for concurrent use.
type Catalog struct {
	rules map[string]Rule
}

// Load reads every definition from src and builds a catalog.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	defs, err := src.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load level definitions: %w", err)
	}
	return NewCatalog(defs)
}

// NewCatalog compiles defs. Any invalid definition or duplicate id fails the
// whole catalog.
func NewCatalog(defs []models.LevelDefinition) (*Catalog, error) {
	rules := make(map[string]Rule, len(defs))
	for _, def := range defs {
		rule, err := Compile(def)
		if err != nil {
			return nil, err
		}
		if _, dup := rules[rule.ID]; dup {
			return nil, fmt.Errorf("level %q: %w: duplicate id", rule.ID, common.ErrorValidation)
		}
		rules[rule.ID] = *rule
	}
	return &Catalog{rules: rules}, nil
}

// Get returns the rule for id.
func (c *Catalog) Get(id string) (Rule, bool) {
	r, ok := c.rules[id]
	return r, ok
}

// Len returns the number of levels.
func (c *Catalog) Len() int {
	return len(c.rules)
}

// IDs returns all level ids, sorted.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.rules))
	for id := range c.rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ReservedLevelID is the key progress.json keeps the last page under, next to
// completed level ids, so no level may use it.
const ReservedLevelID = "last_page"

// Compile turns a stored definition into a typed rule. Expected answers and
// credentials are normalized here, once.
func Compile(def models.LevelDefinition) (*Rule, error) {
	id := strings.TrimSpace(def.ID)
	if id == "" {
		return nil, fmt.Errorf("%w: level without id", common.ErrorValidation)
	}

	if id == ReservedLevelID {
		return nil, fmt.Errorf("level %q: %w: reserved id", id, common.ErrorValidation)
	}

	if strings.TrimSpace(def.Next) == "" {
		return nil, fmt.Errorf("level %q: %w: missing next", id, common.ErrorValidation)
	}

	rule := &Rule{ID: id, Next: def.Next}

	if def.Answer != nil {
		rule.Checks = append(rule.Checks, AnswerCheck{Answer: normalize(*def.Answer)})
	}

	switch strings.ToLower(strings.TrimSpace(def.Type)) {
	case "":
	case models.LevelTypeLogin:
		user, pass := normalize(def.User), normalize(def.Pass)
		if user == "" || pass == "" {
			return nil, fmt.Errorf("level %q: %w: login rule needs user and pass", id, common.ErrorValidation)
		}
		rule.Checks = append(rule.Checks, LoginCheck{User: user, Pass: pass})
	default:
		return nil, fmt.Errorf("level %q: %w: unknown type %q", id, common.ErrorValidation, def.Type)
	}

	return rule, nil
}

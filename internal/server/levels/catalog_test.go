package levels

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/umbra/internal/common"
	"github.com/dmitrijs2005/umbra/internal/server/models"
)

func strPtr(s string) *string { return &s }

func TestCompile(t *testing.T) {
	tests := []struct {
		name      string
		def       models.LevelDefinition
		wantKinds []Kind
		wantNext  string
		wantErr   bool
	}{
		{
			name:      "answer",
			def:       models.LevelDefinition{ID: "level1", Answer: strPtr(" Shadow "), Next: "/pages/level2/index.html"},
			wantKinds: []Kind{KindAnswer},
			wantNext:  "/pages/level2/index.html",
		},
		{
			name:      "login",
			def:       models.LevelDefinition{ID: "level8", Type: "login", User: "Guest", Pass: "1234", Next: "/escucha/index.html"},
			wantKinds: []Kind{KindLogin},
			wantNext:  "/escucha/index.html",
		},
		{
			name:      "answer then login",
			def:       models.LevelDefinition{ID: "combo", Answer: strPtr("x"), Type: "LOGIN", User: "u", Pass: "p", Next: "/n"},
			wantKinds: []Kind{KindAnswer, KindLogin},
			wantNext:  "/n",
		},
		{
			name:      "no checks",
			def:       models.LevelDefinition{ID: "intro", Next: "/pages/level1/"},
			wantKinds: nil,
			wantNext:  "/pages/level1/",
		},
		{
			name:      "next kept verbatim",
			def:       models.LevelDefinition{ID: "odd", Next: " /pages/Level 2/ "},
			wantKinds: nil,
			wantNext:  " /pages/Level 2/ ",
		},
		{
			name:    "blank next",
			def:     models.LevelDefinition{ID: "blank", Next: "   "},
			wantErr: true,
		},
		{
			name:    "reserved id",
			def:     models.LevelDefinition{ID: "last_page", Next: "/pages/x"},
			wantErr: true,
		},
		{
			name:    "missing next",
			def:     models.LevelDefinition{ID: "broken", Answer: strPtr("x")},
			wantErr: true,
		},
		{
			name:    "missing id",
			def:     models.LevelDefinition{Next: "/n"},
			wantErr: true,
		},
		{
			name:    "login without pass",
			def:     models.LevelDefinition{ID: "l", Type: "login", User: "guest", Next: "/n"},
			wantErr: true,
		},
		{
			name:    "unknown type",
			def:     models.LevelDefinition{ID: "l", Type: "riddle", Next: "/n"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := Compile(tt.def)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, common.ErrorValidation), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNext, rule.Next)

			var kinds []Kind
			for _, c := range rule.Checks {
				kinds = append(kinds, c.Kind())
			}
			assert.Equal(t, tt.wantKinds, kinds)
		})
	}
}

func TestCompile_NormalizesExpectations(t *testing.T) {
	rule, err := Compile(models.LevelDefinition{ID: "l", Answer: strPtr("  ShAdOw "), Type: "login", User: " Guest ", Pass: "PaSS", Next: "/n"})
	require.NoError(t, err)

	require.Len(t, rule.Checks, 2)
	assert.Equal(t, AnswerCheck{Answer: "shadow"}, rule.Checks[0])
	assert.Equal(t, LoginCheck{User: "guest", Pass: "pass"}, rule.Checks[1])
}

func TestNewCatalog(t *testing.T) {
	c, err := NewCatalog([]models.LevelDefinition{
		{ID: "level2", Answer: strPtr("b"), Next: "/pages/level3/"},
		{ID: "level1", Answer: strPtr("a"), Next: "/pages/level2/"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"level1", "level2"}, c.IDs())

	r, ok := c.Get("level1")
	require.True(t, ok)
	assert.Equal(t, "/pages/level2/", r.Next)

	_, ok = c.Get("nonexistent-level")
	assert.False(t, ok)
}

func TestNewCatalog_Errors(t *testing.T) {
	_, err := NewCatalog([]models.LevelDefinition{
		{ID: "a", Next: "/x"},
		{ID: "a", Next: "/y"},
	})
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = NewCatalog([]models.LevelDefinition{{ID: "a"}})
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = NewCatalog([]models.LevelDefinition{
		{ID: "level1", Next: "/pages/level2/"},
		{ID: ReservedLevelID, Next: "/pages/x"},
	})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestNewCatalog_Empty(t *testing.T) {
	c, err := NewCatalog(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.IDs())
}

type fakeSource struct {
	defs []models.LevelDefinition
	err  error
}

func (f fakeSource) List(context.Context) ([]models.LevelDefinition, error) {
	return f.defs, f.err
}

func TestLoad(t *testing.T) {
	c, err := Load(context.Background(), fakeSource{defs: []models.LevelDefinition{{ID: "a", Next: "/b"}}})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	_, err = Load(context.Background(), fakeSource{err: errors.New("db down")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

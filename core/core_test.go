package core

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanString(t *testing.T) {
	tests := []struct {
		s     string
		lower bool
		want  string
	}{
		{s: "", want: ""},
		{s: "  Ada  ", want: "Ada"},
		{s: " MATH101\t", lower: true, want: "math101"},
	}
	for _, tt := range tests {
		if got := CleanString(tt.s, tt.lower); got != tt.want {
			t.Errorf("CleanString(%q, %v) = %q, want %q", tt.s, tt.lower, got, tt.want)
		}
	}

	if got := CleanID(" cs101 "); got != "CS101" {
		t.Errorf("CleanID() = %q, want %q", got, "CS101")
	}
	if got := CollapseSpaces("  Ada \t  Lovelace "); got != "Ada Lovelace" {
		t.Errorf("CollapseSpaces() = %q, want %q", got, "Ada Lovelace")
	}
}

func TestParseOrdering(t *testing.T) {
	tests := []struct {
		s    string
		want Ordering
	}{
		{s: "", want: Ordering{Field: "", Ascending: true}},
		{s: "name", want: Ordering{Field: "name", Ascending: true}},
		{s: " -Credits ", want: Ordering{Field: "credits", Ascending: false}},
	}
	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			got := ParseOrdering(tt.s)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "credits DESC", ParseOrdering("-credits").String())
}

func TestSortBy(t *testing.T) {
	type item struct {
		key, order int
	}
	less := func(a, b item) bool { return a.key < b.key }

	items := []item{{2, 0}, {1, 1}, {2, 2}, {0, 3}}
	SortBy(items, Ordering{Ascending: true}, less)
	assert.Equal(t, []item{{0, 3}, {1, 1}, {2, 0}, {2, 2}}, items)

	SortBy(items, Ordering{Ascending: false}, less)
	assert.Equal(t, []item{{2, 0}, {2, 2}, {1, 1}, {0, 3}}, items, "equal keys keep their order")
}

type sample struct {
	Name  string `json:"name" validate:"required"`
	At    string `json:"at" validate:"clock"`
	Label string `json:"label" validate:"omitempty,alphanum_"`
}

func TestCheckStruct(t *testing.T) {
	tests := []struct {
		name      string
		s         sample
		wantField string
		wantMsg   string
	}{
		{name: "valid", s: sample{Name: "a", At: "09:30", Label: "Intro_1"}},
		{name: "required", s: sample{At: "09:30"}, wantField: "name", wantMsg: "name is required"},
		{name: "clock", s: sample{Name: "a", At: "9h30"}, wantField: "at", wantMsg: "at must be a time of day formatted as HH:MM"},
		{name: "clock hours", s: sample{Name: "a", At: "24:00"}, wantField: "at", wantMsg: "at must be a time of day formatted as HH:MM"},
		{name: "custom alphanum", s: sample{Name: "a", At: "09:30", Label: "a-b"}, wantField: "label", wantMsg: "label may only contain alphanumeric characters and underscores"},
		{name: "custom alphanum space", s: sample{Name: "a", At: "09:30", Label: "Intro 1"}, wantField: "label", wantMsg: "label may only contain alphanumeric characters and underscores"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckStruct(tt.s)
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			vErr := err.(*ValidationError)
			require.Len(t, vErr.Fields, 1)
			assert.Equal(t, tt.wantField, vErr.Fields[0].Field)
			assert.Equal(t, tt.wantMsg, vErr.Error())
		})
	}
}

func TestValidationError(t *testing.T) {
	assert.Equal(t, "", ValidationError{}.Error())
	assert.Equal(t, "name: is required", ValidationError{Fields: []FieldError{{Field: "name", Error: "is required"}}}.Error())

	errTest := errors.New("test error")
	err := NewValidationError(errors.Wrap(errTest, "wrapped"))
	assert.Equal(t, "wrapped: test error", err.Error())
	assert.ErrorIs(t, err, errTest)
	assert.True(t, IsValidation(errors.Wrap(err, "again")))
	assert.False(t, IsValidation(errTest))
}

func TestNewConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("ENV", "")
		conf, err := NewConfig()
		require.NoError(t, err)
		assert.Equal(t, "DEV", conf.Env)
		assert.True(t, conf.Debug)
		assert.Equal(t, "Registrar", conf.AppName)
		assert.Equal(t, "data", conf.DataDir)
		assert.True(t, conf.SeedCatalog)
		assert.Equal(t, "warn", conf.Log.Level)
		assert.Equal(t, RulesConfig{
			MinCredits: 9, MaxCredits: 18, DefaultCapacity: 30, DefaultCredits: 3, DayStart: "08:00", DayEnd: "17:50",
		}, conf.Rules)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("ENV", "prod")
		t.Setenv("REGISTRAR_DATA_DIR", dir)
		t.Setenv("REGISTRAR_RULES_MAX_CREDITS", "21")
		t.Setenv("REGISTRAR_LOG_LEVEL", "error")
		conf, err := NewConfig()
		require.NoError(t, err)
		assert.Equal(t, "PROD", conf.Env)
		assert.False(t, conf.Debug)
		assert.Equal(t, dir, conf.DataDir)
		assert.Equal(t, 21, conf.Rules.MaxCredits)
		assert.Equal(t, "error", conf.Log.Level)
		assert.Equal(t, filepath.Join(dir, "courses.csv"), conf.DataFile("courses.csv"))
	})

	t.Run("test mode", func(t *testing.T) {
		t.Setenv("ENV", "test")
		conf, err := NewConfig()
		require.NoError(t, err)
		assert.True(t, conf.TestMode)
	})

	invalid := map[string]string{
		"REGISTRAR_LOG_LEVEL":         "loud",
		"REGISTRAR_RULES_MIN_CREDITS": "19",
		"REGISTRAR_RULES_DAY_START":   "8h",
	}
	for key, val := range invalid {
		t.Run("invalid "+key, func(t *testing.T) {
			t.Setenv("ENV", "")
			t.Setenv(key, val)
			_, err := NewConfig()
			assert.Error(t, err)
		})
	}
}

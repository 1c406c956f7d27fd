package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDefaultStructure(t *testing.T) {
	require.NoError(t, DefaultStructure().Validate())
}

func TestValidateRejectsEmptyStructure(t *testing.T) {
	err := Structure{}.Validate()
	assert.ErrorIs(t, err, ErrEmptyStructure)
}

func TestValidatePercentBounds(t *testing.T) {
	cases := []struct {
		name string
		item Item
		ok   bool
	}{
		{"zero percent", Item{Code: "A", Percent: pct(0)}, true},
		{"full percent", Item{Code: "A", Percent: pct(100)}, true},
		{"negative percent", Item{Code: "A", Percent: pct(-1)}, false},
		{"excessive percent", Item{Code: "A", Percent: pct(100.5)}, false},
		{"negative debit", Item{Code: "A", DebitPercent: pct(-0.1)}, false},
		{"excessive debit", Item{Code: "A", DebitPercent: pct(101)}, false},
		{"both set", Item{Code: "A", Percent: pct(10), DebitPercent: pct(4)}, false},
		{"note row ignores fields", Item{Code: "A", Percent: pct(500), Note: true}, true},
		{"plain row without percents", Item{Code: "A", Label: "heading"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Structure{Sections: []Section{{Title: "S", Items: []Item{tc.item}}}}
			err := s.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidPercent)
			}
		})
	}
}

func TestWithoutItem(t *testing.T) {
	s := DefaultStructure()
	trimmed := s.WithoutItem(CodeSocialInsurance)

	for _, section := range trimmed.Sections {
		for _, item := range section.Items {
			assert.NotEqual(t, CodeSocialInsurance, item.Code)
		}
	}
	// the original is untouched
	found := false
	for _, section := range s.Sections {
		for _, item := range section.Items {
			if item.Code == CodeSocialInsurance {
				found = true
			}
		}
	}
	assert.True(t, found, "WithoutItem must copy, not mutate")
	assert.Len(t, trimmed.Sections, len(s.Sections))
}

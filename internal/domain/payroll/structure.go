package payroll

import "fmt"

// Item is one line of a payslip structure. Percent adds a credit
// computed against the gross amount, DebitPercent subtracts one. Note
// rows are narrative only and never contribute an amount.
type Item struct {
	Code         string   `json:"code"`
	Label        string   `json:"label"`
	Percent      *float64 `json:"percent,omitempty"`
	DebitPercent *float64 `json:"debitPercent,omitempty"`
	Remark       string   `json:"remark,omitempty"`
	Note         bool     `json:"note,omitempty"`
}

type Section struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Structure is the institution's payslip template. Instances are value
// objects: validated once, then shared read-only across any number of
// concurrent computations.
type Structure struct {
	Sections []Section `json:"sections"`
}

// Validate checks every item for a usable percent configuration.
func (s Structure) Validate() error {
	if len(s.Sections) == 0 {
		return ErrEmptyStructure
	}
	for _, section := range s.Sections {
		for _, item := range section.Items {
			if item.Note {
				continue
			}
			if item.Percent != nil && item.DebitPercent != nil {
				return fmt.Errorf("%w: item %q sets both percent and debitPercent", ErrInvalidPercent, item.Code)
			}
			if item.Percent != nil && (*item.Percent < 0 || *item.Percent > 100) {
				return fmt.Errorf("%w: item %q percent %v", ErrInvalidPercent, item.Code, *item.Percent)
			}
			if item.DebitPercent != nil && (*item.DebitPercent < 0 || *item.DebitPercent > 100) {
				return fmt.Errorf("%w: item %q debitPercent %v", ErrInvalidPercent, item.Code, *item.DebitPercent)
			}
		}
	}
	return nil
}

// WithoutItem returns a copy of the structure with every item carrying
// the given code removed. Sections left empty are kept so section
// ordering stays stable for rendering.
func (s Structure) WithoutItem(code string) Structure {
	out := Structure{Sections: make([]Section, 0, len(s.Sections))}
	for _, section := range s.Sections {
		kept := Section{Title: section.Title}
		for _, item := range section.Items {
			if item.Code == code {
				continue
			}
			kept.Items = append(kept.Items, item)
		}
		out.Sections = append(out.Sections, kept)
	}
	return out
}

func pct(v float64) *float64 { return &v }

// DefaultStructure returns the built-in institution template used
// whenever no custom structure has been configured. The credit
// percentages sum to 100 so the gross credit total equals the gross
// amount set for the period.
func DefaultStructure() Structure {
	return Structure{Sections: []Section{
		{
			Title: "Base Pay",
			Items: []Item{
				{Code: "BASE", Label: "Basic salary", Percent: pct(60)},
				{Code: "SENIORITY", Label: "Seniority allowance", Percent: pct(5)},
			},
		},
		{
			Title: "Allowances",
			Items: []Item{
				{Code: "HOUSING", Label: "Housing allowance", Percent: pct(15)},
				{Code: "TRANSPORT", Label: "Transport allowance", Percent: pct(10)},
				{Code: "DUTY", Label: "Responsibility allowance", Percent: pct(10)},
				{Code: "DUTY-NOTE", Label: "Applies while a duty post is held", Note: true},
			},
		},
		{
			Title: "Statutory Deductions",
			Items: []Item{
				{Code: CodeSocialInsurance, Label: "CNPS pension contribution", DebitPercent: pct(4.2), Remark: "employee share"},
			},
		},
	}}
}

package payroll

// ComputedItem mirrors a structure item with its amount resolved
// against the gross pay. Note rows keep zero amounts.
type ComputedItem struct {
	Code         string   `json:"code"`
	Label        string   `json:"label"`
	Percent      *float64 `json:"percent,omitempty"`
	DebitPercent *float64 `json:"debitPercent,omitempty"`
	Remark       string   `json:"remark,omitempty"`
	Note         bool     `json:"note,omitempty"`
	CreditAmount float64  `json:"creditAmount"`
	DebitAmount  float64  `json:"debitAmount"`
}

type ComputedSection struct {
	Title           string         `json:"title"`
	Items           []ComputedItem `json:"items"`
	SubtotalPercent float64        `json:"subtotalPercent"`
	SubtotalAmount  float64        `json:"subtotalAmount"`
}

// ComputedPayslip is the fully resolved payslip for one gross amount
// and one structure. NegativeNet flags a structure whose debits
// exceeded its credits; NetPay is clamped at zero in that case.
type ComputedPayslip struct {
	Gross            float64           `json:"gross"`
	Sections         []ComputedSection `json:"sections"`
	GrossCreditTotal float64           `json:"grossCreditTotal"`
	TotalDebit       float64           `json:"totalDebit"`
	NetPay           float64           `json:"netPay"`
	NegativeNet      bool              `json:"negativeNet,omitempty"`
}

// ComputePayslip expands a payslip structure against a gross amount.
// Amounts are kept in full precision; any rounding for presentation is
// the caller's concern and must not feed back into the totals. A debit
// percent wins over a credit percent on a misconfigured item so the
// same line is never counted on both sides.
func ComputePayslip(gross float64, s Structure) ComputedPayslip {
	out := ComputedPayslip{Gross: gross}
	for _, section := range s.Sections {
		computed := ComputedSection{Title: section.Title}
		for _, item := range section.Items {
			line := ComputedItem{
				Code:         item.Code,
				Label:        item.Label,
				Percent:      item.Percent,
				DebitPercent: item.DebitPercent,
				Remark:       item.Remark,
				Note:         item.Note,
			}
			switch {
			case item.Note:
				// narrative row, rendered with blank amount columns
				line.Percent = nil
				line.DebitPercent = nil
			case item.DebitPercent != nil:
				line.DebitAmount = gross * *item.DebitPercent / 100
				out.TotalDebit += line.DebitAmount
			case item.Percent != nil:
				line.CreditAmount = gross * *item.Percent / 100
				computed.SubtotalPercent += *item.Percent
				out.GrossCreditTotal += line.CreditAmount
			}
			computed.Items = append(computed.Items, line)
		}
		computed.SubtotalAmount = gross * computed.SubtotalPercent / 100
		out.Sections = append(out.Sections, computed)
	}

	net := out.GrossCreditTotal - out.TotalDebit
	if net < 0 {
		net = 0
		out.NegativeNet = true
	}
	out.NetPay = net
	return out
}

package report

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Rate returns part/total as a percentage rounded to two decimals, or 0 when
// total is zero.
func Rate(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return decimal.NewFromInt(part).
		Mul(hundred).
		Div(decimal.NewFromInt(total)).
		Round(2).
		InexactFloat64()
}

// AttendanceRate counts approved and still-pending records as present.
func (c StatusCounts) AttendanceRate() float64 {
	return Rate(c.Approved+c.Submitted, c.Total)
}

// ComplianceRate counts approved records only.
func (c StatusCounts) ComplianceRate() float64 {
	return Rate(c.Approved, c.Total)
}

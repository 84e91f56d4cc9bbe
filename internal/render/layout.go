package render

// Layout holds every coordinate of the receipt page, in points.
// Y values are text baselines.
type Layout struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64

	// Column share of the content width: item name, quantity, rate, amount.
	ColumnShares [4]float64

	NameY    float64
	AddressY float64
	PhoneY   float64
	HeadingY float64

	MetaRow1Y   float64 // Bill / Time
	MetaRow2Y   float64 // Date / Table
	MetaRightX  float64
	TopRuleY    float64
	HeaderRowY  float64
	HeaderRuleY float64
	FirstItemY  float64
	RowStep     float64

	TotalsRightX float64

	// Vertical gaps after the item rows.
	SubTotalGap float64
	GrossGap    float64
	FooterGap   float64

	TitleSize  float64
	BodySize   float64
	GrossSize  float64
	FooterSize float64

	Heading string
	Footer  string
}

// DefaultLayout is a 350×500 pt slip.
func DefaultLayout() Layout {
	return Layout{
		PageWidth:    350,
		PageHeight:   500,
		Margin:       20,
		ColumnShares: [4]float64{0.5, 0.167, 0.167, 0.167},
		NameY:        30,
		AddressY:     50,
		PhoneY:       70,
		HeadingY:     110,
		MetaRow1Y:    140,
		MetaRow2Y:    165,
		MetaRightX:   250,
		TopRuleY:     180,
		HeaderRowY:   200,
		HeaderRuleY:  210,
		FirstItemY:   230,
		RowStep:      20,
		TotalsRightX: 310,
		SubTotalGap:  20,
		GrossGap:     25,
		FooterGap:    30,
		TitleSize:    14,
		BodySize:     12,
		GrossSize:    14,
		FooterSize:   10,
		Heading:      "RESTAURANT",
		Footer:       "THANKS FOR YOUR KIND VISIT",
	}
}

// CenterX is the horizontal middle of the page.
func (l Layout) CenterX() float64 {
	return l.PageWidth / 2
}

// RuleEndX is where horizontal rules stop.
func (l Layout) RuleEndX() float64 {
	return l.PageWidth - l.Margin
}

// Columns returns the left edge and width of each table column.
func (l Layout) Columns() (x [4]float64, w [4]float64) {
	content := l.PageWidth - 2*l.Margin
	left := l.Margin
	for i, share := range l.ColumnShares {
		x[i] = left
		w[i] = content * share
		left += w[i]
	}
	return x, w
}

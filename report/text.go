package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/rustyeddy/globalfire/indicators"
)

// WriteText renders c as a plain-text dashboard.
func WriteText(w io.Writer, c Cycle) error {
	r := c.Report
	var b strings.Builder

	fmt.Fprintf(&b, "GLOBAL FIRE command center  %s  (cycle %s)\n\n", c.At.Format("2006-01-02 15:04"), c.ID)

	b.WriteString("1. Market sensors\n")
	fmt.Fprintf(&b, "  %-8s price %s  change %s\n", r.Primary.Symbol, money(r.Primary.Price), pct(r.Primary.PctChange))
	fmt.Fprintf(&b, "  %-8s momentum %s [%s]  drawdown %s [%s]\n",
		"", r.Primary.Momentum, r.Primary.MomentumLabel, pct(r.Primary.Drawdown), r.Primary.DrawdownLabel)
	if r.Primary.MonthlyMomentum != nil {
		fmt.Fprintf(&b, "  %-8s monthly momentum %s\n", "", *r.Primary.MonthlyMomentum)
	}
	if s := r.Secondary; s != nil {
		fmt.Fprintf(&b, "  %-8s price %s  momentum %s [%s]  drawdown %s [%s]\n",
			s.Symbol, money(s.Price), s.Momentum, s.MomentumLabel, pct(s.Drawdown), s.DrawdownLabel)
	}
	if a := r.Auxiliary; a != nil {
		fmt.Fprintf(&b, "  %-8s %s\n", a.Symbol, a.Value)
	}

	d := r.Decision
	fmt.Fprintf(&b, "\n2. Action protocol: %s (%s, %s)\n\n", d.State, d.Category, d.Tone)
	for _, line := range strings.Split(d.Guidance, "\n") {
		b.WriteString("  " + line + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func money(v indicators.Value) string {
	if !v.OK {
		return v.String()
	}
	return fmt.Sprintf("$%.2f", v.V)
}

func pct(v indicators.Value) string {
	if !v.OK {
		return v.String()
	}
	return fmt.Sprintf("%.2f%%", v.V)
}

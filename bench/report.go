package bench

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// Report renders measurement results for human consumption.
type Report struct {
	Results []Result
}

// WriteTable writes the results as an aligned table. The SPEEDUP column
// compares each engine against the naive engine of the same case and mode.
func (r Report) WriteTable(w io.Writer) error {
	baseline := make(map[string]float64, len(r.Results))
	for _, res := range r.Results {
		if res.Engine == "naive" && res.Ops > 0 {
			baseline[res.Case.Name+"/"+res.Mode.String()] = nsPerOp(res)
		}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CASE\tBITS\tMODE\tENGINE\tOPS\tTIME\tNS/OP\tSPEEDUP")
	for _, res := range r.Results {
		perOp := nsPerOp(res)
		speedup := "-"
		if base, ok := baseline[res.Case.Name+"/"+res.Mode.String()]; ok && perOp > 0 {
			speedup = fmt.Sprintf("%.2fx", base/perOp)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%d\t%v\t%.1f\t%s\n",
			res.Case.Name, res.Case.Modulus.BitLen(), res.Mode, res.Engine,
			res.Ops, res.Elapsed.Round(time.Microsecond), perOp, speedup)
	}
	return tw.Flush()
}

func nsPerOp(res Result) float64 {
	if res.Ops == 0 {
		return 0
	}
	return float64(res.Elapsed.Nanoseconds()) / float64(res.Ops)
}

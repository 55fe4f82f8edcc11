package client

import (
	"io"
	"math"
)

// ProgressFunc receives the number of bytes sent so far and the total.
// total is zero or negative when unknown.
type ProgressFunc func(sent, total int64)

// Percent computes round(sent*100/total), or 0 when total is unknown.
func Percent(sent, total int64) int {
	if total <= 0 {
		return 0
	}
	p := int(math.Round(float64(sent) * 100 / float64(total)))
	return min(max(p, 0), 100)
}

type progressReader struct {
	r          io.Reader
	total      int64
	sent       int64
	onProgress ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.sent += int64(n)
		if pr.onProgress != nil {
			pr.onProgress(pr.sent, pr.total)
		}
	}
	return n, err
}

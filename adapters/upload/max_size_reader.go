package upload

import (
	"fmt"
	"io"
)

var ErrReachLimitType *ReachLimitError

type ReachLimitError struct {
	MaxBytes int64
}

func (e *ReachLimitError) Error() string {
	return fmt.Sprintf("reach limit of %s", FormatBytes(e.MaxBytes))
}

// NewMaxSizeReader 包裝 r，讀取超過 maxSize 時回傳 ReachLimitError
func NewMaxSizeReader(r io.Reader, maxSize int64) io.Reader {
	return &maxSizeReader{r, maxSize, maxSize}
}

type maxSizeReader struct {
	reader io.Reader
	i      int64 // 限制的總長度
	n      int64 // 還可以讀取的長度
}

func (r *maxSizeReader) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	// 只需要多讀 1 byte 就能判斷是否超過限制
	if int64(len(p)) > r.n+1 {
		p = p[:r.n+1]
	}
	n, err = r.reader.Read(p)
	if int64(n) <= r.n {
		r.n -= int64(n)
		return n, err
	}
	n = int(r.n)
	r.n = 0
	return n, &ReachLimitError{r.i}
}

// FormatBytes 將位元組數轉為易讀的字串
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d bytes", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit && exp < 3; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGT"[exp])
}

package analysis

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/inferloop/tsinsight/pkg/models"
)

// Fingerprint derives a stable cache key from the analysis inputs. Two
// invocations with identical data, timestamps, and options always produce
// the same key.
func Fingerprint(data []float64, timestamps []int64, opts models.AnalysisOptions) string {
	h := xxhash.New()
	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], uint64(len(data)))
	h.Write(buf[:])
	for _, v := range data {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	for _, t := range timestamps {
		binary.LittleEndian.PutUint64(buf[:], uint64(t))
		h.Write(buf[:])
	}

	h.WriteString(string(opts.Domain))
	binary.LittleEndian.PutUint64(buf[:], uint64(opts.ContextWindow))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(opts.ConfidenceThreshold))
	h.Write(buf[:])

	return strconv.FormatUint(h.Sum64(), 16)
}

// File: internal/infra/adapters/document/cpf.go
package document

import (
	"math/rand/v2"

	"telegram-pix-vip/internal/domain/ports/adapter"
)

var _ adapter.DocumentGenerator = (*CPFGenerator)(nil)

// CPFGenerator produces syntactically valid random CPF numbers. The gateway's
// upstream validator only checks the mod-11 check digits, so any well-formed
// number passes.
type CPFGenerator struct{}

func NewCPFGenerator() *CPFGenerator { return &CPFGenerator{} }

func (g *CPFGenerator) TaxpayerID() string {
	var d [11]int
	for {
		allEqual := true
		for i := 0; i < 9; i++ {
			d[i] = rand.IntN(10)
			if d[i] != d[0] {
				allEqual = false
			}
		}
		// Repeated-digit sequences are rejected by most validators.
		if !allEqual {
			break
		}
	}

	d[9] = checkDigit(d[:9], 10)
	d[10] = checkDigit(d[:10], 11)

	out := make([]byte, 11)
	for i, v := range d {
		out[i] = byte('0' + v)
	}
	return string(out)
}

// checkDigit computes a CPF mod-11 check digit with descending weights
// starting at firstWeight.
func checkDigit(digits []int, firstWeight int) int {
	sum := 0
	for i, v := range digits {
		sum += v * (firstWeight - i)
	}
	r := sum * 10 % 11
	if r == 10 {
		return 0
	}
	return r
}

package services

import (
	"math"
	"strings"
)

// AmountToWords spells out a rupiah amount in Indonesian for quotation footers.
// Example: 468000 → "Empat Ratus Enam Puluh Delapan Ribu Rupiah"
func AmountToWords(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	if amount < 0 {
		return "Minus " + AmountToWords(-amount)
	}

	rupiah := int64(math.Round(amount))
	if rupiah == 0 {
		return "Nol Rupiah"
	}
	return convertToIndonesianWords(rupiah) + " Rupiah"
}

var indonesianScales = []struct {
	value int64
	name  string
}{
	{1_000_000_000_000, "Triliun"},
	{1_000_000_000, "Miliar"},
	{1_000_000, "Juta"},
	{1_000, "Ribu"},
}

func convertToIndonesianWords(n int64) string {
	var parts []string

	for _, s := range indonesianScales {
		if n < s.value {
			continue
		}
		group := n / s.value
		n %= s.value
		// 1000 is "Seribu", not "Satu Ribu"; larger scales keep "Satu".
		if group == 1 && s.name == "Ribu" {
			parts = append(parts, "Seribu")
			continue
		}
		parts = append(parts, convertUnder1000(group)+" "+s.name)
	}

	if n > 0 {
		parts = append(parts, convertUnder1000(n))
	}
	return strings.Join(parts, " ")
}

func convertUnder1000(n int64) string {
	var parts []string

	switch h := n / 100; {
	case h == 1:
		parts = append(parts, "Seratus")
	case h > 1:
		parts = append(parts, digitWords[h]+" Ratus")
	}

	switch r := n % 100; {
	case r == 0:
	case r < 10:
		parts = append(parts, digitWords[r])
	case r == 10:
		parts = append(parts, "Sepuluh")
	case r == 11:
		parts = append(parts, "Sebelas")
	case r < 20:
		parts = append(parts, digitWords[r-10]+" Belas")
	default:
		w := digitWords[r/10] + " Puluh"
		if r%10 != 0 {
			w += " " + digitWords[r%10]
		}
		parts = append(parts, w)
	}

	return strings.Join(parts, " ")
}

var digitWords = []string{
	"", "Satu", "Dua", "Tiga", "Empat", "Lima", "Enam", "Tujuh", "Delapan", "Sembilan",
}

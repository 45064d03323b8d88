package validate

import (
	"regexp"
	"strings"
)

// Phone messages, reported to the participant as-is.
const (
	MsgPhoneRequired = "Informe seu WhatsApp."
	MsgPhonePlus     = "Use o formato internacional iniciando com + (ex: +55)."
	MsgPhoneDDI      = "DDI inválido. Ex: +55, +1, +351."
	MsgPhoneDigits   = "Telefone inválido (quantidade de dígitos incompatível)."
	MsgPhoneBrazil   = "WhatsApp BR deve ter DDD + número (10 ou 11 dígitos após o 55)."
)

const brazilDDI = "55"

var (
	ddiPrefix = regexp.MustCompile(`^\+(\d{1,3})`)
	ddiSplit  = regexp.MustCompile(`^\+(\d{1,3})(.*)$`)
	nonDigit  = regexp.MustCompile(`\D`)
)

func onlyDigits(s string) string {
	return nonDigit.ReplaceAllString(s, "")
}

// Phone validates an international phone number.
//
// All checks run against the trimmed value; when more than one fails, the
// last failing check decides the message. A Brazilian number with too few
// digits therefore reports the DDD + number rule rather than the generic
// digit-count message.
func Phone(raw string) Result {
	val := strings.TrimSpace(raw)
	digits := onlyDigits(val)

	res := ok()
	if val == "" {
		res = fail("required", MsgPhoneRequired)
	}
	if !strings.HasPrefix(val, "+") {
		res = fail("e164_plus", MsgPhonePlus)
	}
	if !ddiPrefix.MatchString(val) {
		res = fail("e164_ddi", MsgPhoneDDI)
	}
	if len(digits) < 8 || len(digits) > 15 {
		res = fail("e164_digits", MsgPhoneDigits)
	}
	if strings.HasPrefix(digits, brazilDDI) {
		rest := digits[len(brazilDDI):]
		if len(rest) != 10 && len(rest) != 11 {
			res = fail("br_national", MsgPhoneBrazil)
		}
	}
	return res
}

// DefaultPhonePrefix seeds an empty phone answer.
const DefaultPhonePrefix = "+55 "

// MaskPhone formats a phone number for display. Numbers starting with +55 use
// the Brazilian layout "+55 (DD) 9XXXX-XXXX"; other country codes are grouped
// in blocks of three. Bare digits are assumed Brazilian and blank input
// becomes the default prefix.
func MaskPhone(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return DefaultPhonePrefix
	}

	if !strings.HasPrefix(trimmed, "+") {
		return formatBrazil(onlyDigits(trimmed))
	}

	m := ddiSplit.FindStringSubmatch(trimmed)
	if m == nil {
		digits := onlyDigits(trimmed)
		if digits == "" {
			return "+"
		}
		if len(digits) > 3 {
			digits = digits[:3]
		}
		return "+" + digits + " "
	}

	ddi, rest := m[1], onlyDigits(m[2])
	// The DDI group is greedy, so "+5511..." reads as "551"; any number whose
	// digits open with 55 is laid out as Brazilian.
	total := ddi + rest
	if strings.HasPrefix(total, brazilDDI) {
		return formatBrazil(total[len(brazilDDI):])
	}

	// E.164 caps the total at 15 digits including the DDI.
	if len(total) > 15 {
		total = total[:15]
	}
	return formatInternational(ddi, total[len(ddi):])
}

// formatBrazil renders DDD + subscriber digits (without the 55).
func formatBrazil(rest string) string {
	if len(rest) > 11 {
		rest = rest[:11]
	}
	if len(rest) == 0 {
		return DefaultPhonePrefix
	}
	if len(rest) <= 2 {
		return "+55 (" + rest
	}

	ddd, num := rest[:2], rest[2:]
	split := 4
	if len(num) == 9 {
		split = 5
	}
	if len(num) <= split {
		return "+55 (" + ddd + ") " + num
	}
	return "+55 (" + ddd + ") " + num[:split] + "-" + num[split:]
}

func formatInternational(ddi, rest string) string {
	if rest == "" {
		return "+" + ddi + " "
	}
	var blocks []string
	for i := 0; i < len(rest); {
		size := 3
		if remaining := len(rest) - i; remaining <= 4 {
			size = remaining
		}
		blocks = append(blocks, rest[i:i+size])
		i += size
	}
	return "+" + ddi + " " + strings.Join(blocks, " ")
}

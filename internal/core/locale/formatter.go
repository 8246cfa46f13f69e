// Package locale renders money and dates for the customer facing receipt.
package locale

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var portugueseMonths = [12]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// Formatter is safe for concurrent use once built.
type Formatter struct {
	printer        *message.Printer
	currencySymbol string
	groupSep       string
	decimalSep     string
	months         [12]string
	location       *time.Location
}

type Option func(*Formatter)

// WithLocation renders dates in loc. Without it a date keeps its own location.
func WithLocation(loc *time.Location) Option {
	return func(f *Formatter) { f.location = loc }
}

func New(tag language.Tag, currencySymbol string, months [12]string, opts ...Option) *Formatter {
	f := &Formatter{
		printer:        message.NewPrinter(tag),
		currencySymbol: currencySymbol,
		months:         months,
	}
	f.groupSep, f.decimalSep = separators(f.printer)
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// separators reads the locale's grouping and decimal marks off a sample.
func separators(p *message.Printer) (group, dec string) {
	sample := []rune(p.Sprintf("%.2f", 1000.5))
	dec = string(sample[len(sample)-3])
	if len(sample) == 8 {
		group = string(sample[1])
	}
	return group, dec
}

// BrazilianReal formats as "R$ 1.234,50" and "10 de novembro de 2020".
func BrazilianReal(opts ...Option) *Formatter {
	return New(language.BrazilianPortuguese, "R$", portugueseMonths, opts...)
}

// Currency rounds to cents. The symbol is separated by a no-break space.
func (f *Formatter) Currency(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	whole, cents, _ := strings.Cut(rounded.StringFixed(2), ".")
	return sign + f.currencySymbol + "\u00a0" + groupThousands(whole, f.groupSep) + f.decimalSep + cents
}

func groupThousands(digits, sep string) string {
	if sep == "" || len(digits) <= 3 {
		return digits
	}
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	var b strings.Builder
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteString(sep)
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func (f *Formatter) LongDate(t time.Time) string {
	if f.location != nil {
		t = t.In(f.location)
	}
	return fmt.Sprintf("%d de %s de %d", t.Day(), f.months[t.Month()-1], t.Year())
}

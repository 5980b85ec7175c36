package report

import (
	"fmt"
	"strconv"
	"strings"

	"uchet/internal/core"
)

// Nominative month names for report headers.
var monthTitles = [13]string{
	"", "январь", "февраль", "март", "апрель", "май", "июнь",
	"июль", "август", "сентябрь", "октябрь", "ноябрь", "декабрь",
}

// MonthTitle returns the nominative name of a month, or its number when
// out of range.
func MonthTitle(month int) string {
	if month < 1 || month > 12 {
		return strconv.Itoa(month)
	}
	return monthTitles[month]
}

// FormatMinor renders minor units as a human amount: space-separated
// thousands groups, currency suffix appended, kopecks only when
// non-zero. Negative values (balances) keep a leading minus.
func FormatMinor(minor int64, suffix string) string {
	neg := minor < 0
	if neg {
		minor = -minor
	}
	whole := minor / core.MinorUnitScale
	frac := minor % core.MinorUnitScale

	s := groupThousands(whole)
	if frac != 0 {
		s += fmt.Sprintf(",%02d", frac)
	}
	if neg {
		s = "-" + s
	}
	return s + suffix
}

func groupThousands(v int64) string {
	digits := strconv.FormatInt(v, 10)
	if len(digits) <= 3 {
		return digits
	}
	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)
	return strings.Join(parts, " ")
}

// RenderMonthly formats the month summary: income, de-duplicated
// expense, balance, then the per-category breakdown.
func RenderMonthly(rep core.MonthReport, suffix string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Отчёт за %s %d\n", MonthTitle(rep.Month), rep.Year)
	fmt.Fprintf(&b, "Доход:  %s\n", FormatMinor(rep.IncomeMinor, suffix))
	fmt.Fprintf(&b, "Расход: %s\n", FormatMinor(rep.ExpenseMinor, suffix))
	fmt.Fprintf(&b, "Итог:   %s\n", FormatMinor(rep.BalanceMinor, suffix))
	if len(rep.ByCategory) > 0 {
		b.WriteString("\nРасходы по категориям:\n")
		for _, cat := range rep.ByCategory {
			fmt.Fprintf(&b, "  %s: %s\n", cat.Name, FormatMinor(cat.AmountMinor, suffix))
		}
	}
	return b.String()
}

// RenderDaily formats the per-day lines: DD.MM: +income / -expense ⇒ balance.
func RenderDaily(rep core.MonthReport, suffix string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Сводка по дням за %s %d\n", MonthTitle(rep.Month), rep.Year)
	for _, day := range rep.ByDay {
		fmt.Fprintf(&b, "%s: +%s / -%s ⇒ %s\n",
			shortDate(day.Date),
			FormatMinor(day.IncomeMinor, suffix),
			FormatMinor(day.ExpenseMinor, suffix),
			FormatMinor(day.IncomeMinor-day.ExpenseMinor, suffix))
	}
	return b.String()
}

// shortDate turns YYYY-MM-DD into DD.MM.
func shortDate(iso string) string {
	if len(iso) != 10 {
		return iso
	}
	return iso[8:10] + "." + iso[5:7]
}

package reporting

import (
	"fmt"
	"time"
)

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthName returns the Brazilian Portuguese name of m.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

func publishedLabel(t time.Time) string {
	return fmt.Sprintf("Publicado em %s %d", MonthName(t.Month()), t.Year())
}

func copyrightLabel(t time.Time, company string) string {
	return fmt.Sprintf("© %d %s · Todos os direitos reservados", t.Year(), company)
}

func issuedLabel(t time.Time) string {
	return "Emitido em: " + t.Format("02/01/2006")
}

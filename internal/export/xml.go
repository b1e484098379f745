// Package export writes the loan list in formats meant for other tools.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Dan9191/emi-tracker/internal/models"
	"github.com/beevik/etree"
)

// BuildXML builds the document
//
//	<loans count="n">
//	  <loan id="..." paid="false">
//	    <name>..</name><amount>..</amount><emiDate>..</emiDate>[<paidDate>..</paidDate>]
//	  </loan>
//	</loans>
func BuildXML(loans []models.Loan) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("loans")
	root.CreateAttr("count", strconv.Itoa(len(loans)))
	for _, l := range loans {
		el := root.CreateElement("loan")
		el.CreateAttr("id", l.ID.String())
		el.CreateAttr("paid", strconv.FormatBool(l.Paid))
		el.CreateElement("name").SetText(l.Name)
		el.CreateElement("amount").SetText(l.Amount.String())
		el.CreateElement("emiDate").SetText(l.EMIDate.String())
		if l.PaidDate != nil {
			el.CreateElement("paidDate").SetText(l.PaidDate.String())
		}
	}
	doc.Indent(2)
	return doc
}

// WriteXML writes the loans as an indented XML document.
func WriteXML(w io.Writer, loans []models.Loan) error {
	if _, err := BuildXML(loans).WriteTo(w); err != nil {
		return fmt.Errorf("failed to write XML: %w", err)
	}
	return nil
}

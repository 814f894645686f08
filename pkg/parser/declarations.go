package parser

import (
	"strings"

	"github.com/atlasbridge/odx/pkg/models"
	"github.com/atlasbridge/odx/pkg/odx"
)

// Declarations with an empty required name are skipped rather than treated
// as errors: partially-declared metadata is tolerated across all four
// sections.

func (p *Parser) parseMessages(svc *odx.Element) ([]models.MessageModel, error) {
	var out []models.MessageModel
	for _, el := range svc.Select("MessageDeclaration") {
		name := el.Property("Name")
		if name == "" {
			continue
		}
		out = append(out, models.MessageModel{
			Name:       name,
			SchemaType: el.Property("Type"),
			Direction:  parseDirection(el.Property("ParameterDirection")),
		})
	}
	return out, nil
}

func (p *Parser) parsePortTypes(svc *odx.Element) ([]models.PortTypeModel, error) {
	var out []models.PortTypeModel
	for _, el := range svc.Select("PortTypeDeclaration") {
		name := el.Property("Name")
		if name == "" {
			continue
		}
		pt := models.PortTypeModel{Name: name}
		for _, op := range el.ChildrenOfType("OperationDeclaration") {
			opName := op.Property("Name")
			if opName == "" {
				continue
			}
			kind := models.OperationOneWay
			if strings.EqualFold(op.Property("OperationType"), "RequestResponse") {
				kind = models.OperationRequestResponse
			}
			pt.Operations = append(pt.Operations, models.OperationModel{
				Name:            opName,
				Kind:            kind,
				RequestMessage:  op.Property("RequestMessage"),
				ResponseMessage: op.Property("ResponseMessage"),
				FaultMessage:    op.Property("FaultMessage"),
			})
		}
		out = append(out, pt)
	}
	return out, nil
}

func (p *Parser) parsePorts(svc *odx.Element) ([]models.PortModel, error) {
	var out []models.PortModel
	for _, el := range svc.Select("PortDeclaration") {
		name := el.Property("Name")
		if name == "" {
			continue
		}
		out = append(out, models.PortModel{
			Name:      name,
			PortType:  el.Property("Type"),
			Direction: models.DerivePortDirection(el.PropertyBool("Implements"), el.PropertyBool("RequestResponse")),
			Binding:   models.ParseBindingKind(el.Property("BindingKind")),
		})
	}
	return out, nil
}

func parseDirection(raw string) models.ParameterDirection {
	switch strings.ToLower(raw) {
	case "in":
		return models.DirectionIn
	case "out":
		return models.DirectionOut
	case "inout":
		return models.DirectionInOut
	default:
		return models.DirectionNone
	}
}

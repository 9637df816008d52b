// Package normalize turns loosely typed client search payloads into
// canonical search requests and derives their cache keys.
package normalize

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dharmasatrya/travelhub/internal/models"
)

const dateLayout = "2006-01-02"

type Normalizer struct {
	validate    *validator.Validate
	homeAirport string
}

// New returns a Normalizer. homeAirport is used as the origin of simple
// searches that do not name one; it may be empty.
func New(homeAirport string) *Normalizer {
	return &Normalizer{
		validate:    NewValidator(),
		homeAirport: strings.ToUpper(strings.TrimSpace(homeAirport)),
	}
}

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Normalize validates p and builds the canonical request. Any problem is
// reported as a *models.ValidationError listing every offending field.
func (n *Normalizer) Normalize(p models.SearchPayload) (models.SearchRequest, error) {
	if verr := n.validateStruct(p); verr.HasErrors() {
		return models.SearchRequest{}, verr
	}

	req := models.SearchRequest{
		Travelers:  travelerCounts(p),
		CabinClass: MapCabinClass(p.TravelClass),
		Currency:   strings.ToUpper(strings.TrimSpace(p.CurrencyCode)),
	}
	if p.Filters != nil {
		req.PostFilters.MinCheckedBags = int(p.Filters.CheckedBags)
	}

	if len(p.Segments) > 0 {
		req.Mode = models.ModeMultiCity
		req.Segments = make([]models.Segment, len(p.Segments))
		for i, s := range p.Segments {
			req.Segments[i] = models.Segment{
				Origin:      upper(s.Origin),
				Destination: upper(s.Destination),
				Date:        s.Date,
			}
		}
		return req, nil
	}

	req.Mode = models.ModeSimple
	req.Origin = upper(p.Origin)
	req.Destination = upper(p.Destination)
	req.DepartureDate = p.DepartureDate
	if req.DepartureDate == "" {
		req.DepartureDate = p.Date
	}
	req.ReturnDate = p.ReturnDate

	verr := &models.ValidationError{}
	if req.Origin == "" {
		if n.homeAirport == "" {
			verr.Add("origin", models.MsgRequired)
		}
		req.Origin = n.homeAirport
	}
	if req.Destination == "" {
		verr.Add("destination", models.MsgRequired)
	}
	if req.DepartureDate == "" {
		verr.Add("departureDate", models.MsgRequired)
	}
	if req.ReturnDate != "" && req.DepartureDate != "" && before(req.ReturnDate, req.DepartureDate) {
		verr.Add("returnDate", "must not be before departureDate")
	}
	if verr.HasErrors() {
		return models.SearchRequest{}, verr
	}

	return req, nil
}

func (n *Normalizer) validateStruct(p models.SearchPayload) *models.ValidationError {
	return FieldErrors(n.validate.Struct(p))
}

// FieldErrors converts the result of validator.Struct into a
// *models.ValidationError. It returns nil for a nil error.
func FieldErrors(err error) *models.ValidationError {
	if err == nil {
		return nil
	}

	verr := &models.ValidationError{}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add("body", err.Error())
		return verr
	}
	for _, fe := range fieldErrs {
		verr.Add(fieldName(fe), fieldMessage(fe))
	}
	return verr
}

// fieldName strips the root struct name: "SearchPayload.segments[1].date"
// becomes "segments[1].date".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return models.MsgRequired
	case "datetime":
		return "must be a date formatted as YYYY-MM-DD"
	case "alphanum":
		return "must be an IATA airport or city code"
	case "alpha":
		return "must contain letters only"
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return "is invalid"
	}
}

// travelerCounts applies the adults >= 1 invariant.
func travelerCounts(p models.SearchPayload) models.TravelerCounts {
	adults := int(p.Adults)
	if adults < 1 {
		adults = 1
	}
	return models.TravelerCounts{
		Adults:   adults,
		Children: int(p.Children),
		Infants:  int(p.Infants),
	}
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func before(a, b string) bool {
	ta, errA := time.Parse(dateLayout, a)
	tb, errB := time.Parse(dateLayout, b)
	if errA != nil || errB != nil {
		return false
	}
	return ta.Before(tb)
}

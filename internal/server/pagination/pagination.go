// Package pagination sorts an in-memory collection and cuts it into pages,
// either by page number or by a numeric offset for infinite scroll.
//
// Every call sorts the whole collection it is given. There is no persisted
// order and no index, so the cost grows with the collection; this is fine
// for the small working sets the server is built for.
package pagination

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/contactform/internal/common"
)

type Field string

const (
	FieldName         Field = "name"
	FieldGender       Field = "gender"
	FieldCreationDate Field = "creationDate"
	FieldCountry      Field = "country"
)

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
)

// Sort selects the field and direction used to order a collection.
type Sort struct {
	By    Field
	Order Order
}

// DefaultSort orders by creation date, oldest first.
var DefaultSort = Sort{By: FieldCreationDate, Order: Asc}

// Keyed is implemented by items that expose a text value per sortable field.
type Keyed interface {
	SortKey(field string) string
}

// ParseSort validates raw query values. Empty values take the defaults.
func ParseSort(by, order string) (Sort, error) {
	s := DefaultSort

	if by != "" {
		switch f := Field(by); f {
		case FieldName, FieldGender, FieldCreationDate, FieldCountry:
			s.By = f
		default:
			return Sort{}, common.NewValidationError("invalid sort column")
		}
	}

	if order != "" {
		switch o := Order(order); o {
		case Asc, Desc:
			s.Order = o
		default:
			return Sort{}, common.NewValidationError("invalid sort order")
		}
	}

	return s, nil
}

// ParseInt reads an integer query value named name. Empty raw yields def;
// anything that is not an integer or is below min is a validation error.
func ParseInt(name, raw string, def, min int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < min {
		return 0, common.NewValidationError("invalid " + name)
	}

	return n, nil
}

// Sorted returns a sorted copy of items. Keys are compared byte-wise; equal
// keys keep their input order for both directions.
func Sorted[T Keyed](items []T, s Sort) []T {
	out := slices.Clone(items)
	field := string(s.By)

	slices.SortStableFunc(out, func(a, b T) int {
		if s.Order == Desc {
			return strings.Compare(b.SortKey(field), a.SortKey(field))
		}
		return strings.Compare(a.SortKey(field), b.SortKey(field))
	})

	return out
}

// Page returns items [(page-1)*perPage, page*perPage). Pages past the end
// are empty, never an error.
func Page[T any](items []T, page, perPage int) []T {
	if page < 1 || perPage < 1 || page-1 > math.MaxInt/perPage {
		return []T{}
	}
	return Window(items, (page-1)*perPage, perPage)
}

// Window returns items [offset, offset+limit). An offset at or beyond the
// end yields an empty slice.
func Window[T any](items []T, offset, limit int) []T {
	if offset < 0 || limit < 1 || offset >= len(items) {
		return []T{}
	}

	end := offset + limit
	if end > len(items) || end < offset {
		end = len(items)
	}

	return slices.Clone(items[offset:end])
}

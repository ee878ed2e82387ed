// Package listview derives the rows and pagination metadata a list screen
// renders from whatever page of data is currently loaded. It is a pure
// read/derive step re-run on every page, search or page-size change; it never
// mutates the underlying data.
package listview

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Input describes one evaluation of a list view.
//
// Items is the loaded row set. TotalCount and TotalPages come from the API
// response when the endpoint paginates server-side; zero means absent, in
// which case the view model falls back to len(Items) and, for a client-side
// paginated set, a page count derived from it. ServerPaginated
// is a per-endpoint flag, not a generic behavior: when set, Items is already
// the requested page and is rendered as-is.
type Input[T any] struct {
	Items           []T
	Page            int
	PageSize        int
	SearchTerm      string
	TotalCount      int
	TotalPages      int
	ServerPaginated bool
}

// Result is what the caller renders.
type Result[T any] struct {
	RowsToRender []T
	SafePage     int
	TotalPages   int
	TotalRows    int
}

// Build evaluates the view model.
//
// A non-empty search term filters the full loaded item list by a
// case-insensitive substring match over the concatenation of every field
// value of each row. The filter runs client-side over the loaded page only;
// with server pagination active it does not see other pages. That divergence
// from a global search is deliberate, inherited behavior - do not "fix" it
// here without a decision from the stakeholders.
func Build[T any](in Input[T]) Result[T] {
	totalRows := in.TotalCount
	if totalRows == 0 {
		totalRows = len(in.Items)
	}
	pageSize := in.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	// Without server pagination a bare-array response carries no pagination
	// metadata; derive the page count from the loaded set so page 2 of 23
	// items renders items 10..19 instead of being clamped back to page 1.
	totalPages := in.TotalPages
	if totalPages == 0 && !in.ServerPaginated {
		totalPages = (len(in.Items) + pageSize - 1) / pageSize
	}
	if totalPages <= 0 {
		totalPages = 1
	}
	safePage := clamp(in.Page, 1, totalPages)

	term := strings.ToLower(strings.TrimSpace(in.SearchTerm))
	if term != "" {
		var rows []T
		for _, item := range in.Items {
			if strings.Contains(strings.ToLower(rowText(item)), term) {
				rows = append(rows, item)
			}
		}
		return Result[T]{RowsToRender: rows, SafePage: safePage, TotalPages: totalPages, TotalRows: totalRows}
	}

	rows := in.Items
	if !in.ServerPaginated {
		start := (safePage - 1) * pageSize
		if start > len(rows) {
			start = len(rows)
		}
		end := start + pageSize
		if end > len(rows) {
			end = len(rows)
		}
		rows = rows[start:end]
	}

	return Result[T]{RowsToRender: rows, SafePage: safePage, TotalPages: totalPages, TotalRows: totalRows}
}

// clamp bounds page to [lo, hi]; a degenerate hi (<= 0) yields lo.
func clamp(v, lo, hi int) int {
	if hi <= 0 {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// rowText concatenates every field value of a row for the search-everything
// filter. Pointers are dereferenced, nested structs and maps are walked, nil
// optionals contribute nothing.
func rowText(row any) string {
	var sb strings.Builder
	appendValue(&sb, reflect.ValueOf(row))
	return sb.String()
}

func appendValue(sb *strings.Builder, v reflect.Value) {
	if !v.IsValid() {
		return
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return
		}
		appendValue(sb, v.Elem())
	case reflect.Struct, reflect.Array:
		if t, ok := v.Interface().(time.Time); ok {
			sb.WriteString(t.Format(time.RFC3339))
			sb.WriteByte(' ')
			return
		}
		if s, ok := v.Interface().(fmt.Stringer); ok {
			sb.WriteString(s.String())
			sb.WriteByte(' ')
			return
		}
		if v.Kind() == reflect.Array {
			for i := 0; i < v.Len(); i++ {
				appendValue(sb, v.Index(i))
			}
			return
		}
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).IsExported() {
				appendValue(sb, v.Field(i))
			}
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			appendValue(sb, v.Index(i))
		}
	case reflect.Map:
		for _, key := range v.MapKeys() {
			appendValue(sb, v.MapIndex(key))
		}
	default:
		fmt.Fprintf(sb, "%v ", v.Interface())
	}
}

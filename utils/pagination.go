package utils

// Ellipsis marks a gap in a page window.
const Ellipsis = 0

// PageWindow lists the page numbers to render for a pagination bar: the first
// and last page, the current page with `siblings` neighbours on each side, and
// Ellipsis where pages are skipped.
func PageWindow(current, last, siblings int) []int {
	if last <= 0 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > last {
		current = last
	}
	if siblings < 0 {
		siblings = 0
	}

	start := current - siblings
	if start < 2 {
		start = 2
	}
	end := current + siblings
	if end > last-1 {
		end = last - 1
	}

	pages := []int{1}
	if start > 2 {
		pages = append(pages, Ellipsis)
	}
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	if end < last-1 {
		pages = append(pages, Ellipsis)
	}
	if last > 1 {
		pages = append(pages, last)
	}
	return pages
}

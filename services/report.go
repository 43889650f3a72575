package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"housing-agent/models"
)

// ReportService prints the summary of a finished run.
type ReportService struct {
	out io.Writer
}

func NewReportService(out io.Writer) *ReportService {
	return &ReportService{out: out}
}

func (s *ReportService) Print(r *models.RunReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)
	w := s.out

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  🏠 HOUSING AGENT RUN %s\033[0m\n", shortID(r.RunID))
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Sources\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	sources := make([]string, 0, len(r.PerSource))
	for src := range r.PerSource {
		sources = append(sources, string(src))
	}
	sort.Strings(sources)
	for _, src := range sources {
		status := "\033[1;32mok\033[0m"
		if failed(r, models.Source(src)) {
			status = "\033[1;31mfailed\033[0m"
		}
		fmt.Fprintf(w, "  %-12s : \033[1m%3d\033[0m listings  %s\n", src, r.PerSource[models.Source(src)], status)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total listings scraped   : \033[1m%d\033[0m\n", r.Scraped)
	fmt.Fprintf(w, "  New listings screened    : \033[1m%d\033[0m\n", r.Fresh)
	fmt.Fprintf(w, "  Passed filters           : \033[1m%d\033[0m\n", r.Passed)
	fmt.Fprintf(w, "  Top listings shown       : \033[1m%d\033[0m\n", r.Shown)
	fmt.Fprintf(w, "  Digest sent              : %s\n", yesNo(r.DigestSent))
	fmt.Fprintf(w, "  Seen-set saved           : %s (total %d)\n", yesNo(r.StateSaved), r.SeenTotal)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Top Scored Listings\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TopScored) == 0 {
		fmt.Fprintf(w, "  No listings passed the filters\n")
	} else {
		for i, l := range r.TopScored {
			fmt.Fprintf(w, "  \033[1m%d.\033[0m %-40s \033[1;32m%3d/100\033[0m\n", i+1, truncate(l.Title, 38), l.Score)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Passed Listings by Area\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ByArea) == 0 {
		fmt.Fprintf(w, "  No area data\n")
	} else {
		type areaCount struct {
			area  string
			count int
		}
		var areas []areaCount
		for area, cnt := range r.ByArea {
			areas = append(areas, areaCount{area, cnt})
		}
		sort.Slice(areas, func(i, j int) bool {
			if areas[i].count != areas[j].count {
				return areas[i].count > areas[j].count
			}
			return areas[i].area < areas[j].area
		})
		for _, ac := range areas {
			bar := strings.Repeat("█", ac.count)
			fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(ac.area, 28), bar, ac.count)
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func failed(r *models.RunReport, src models.Source) bool {
	for _, f := range r.FailedSrc {
		if f == src {
			return true
		}
	}
	return false
}

func yesNo(b bool) string {
	if b {
		return "\033[1;32myes\033[0m"
	}
	return "\033[1;31mno\033[0m"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncate shortens s to at most max runes.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

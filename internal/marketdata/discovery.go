package marketdata

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	exchangePrefix = "exchange="
	symbolPrefix   = "symbol="
	datePrefix     = "date="
	hourPrefix     = "hour="
)

// Discover scans the data root and groups symbols by the exchanges that carry
// them. Only symbols present on two or more exchanges are returned, since a
// single-venue symbol has no pair to analyze. Exchange lists are sorted and
// de-duplicated so pair enumeration downstream is deterministic.
func Discover(root string, logger *slog.Logger) (map[string][]string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("scan data root %s: %w", root, err)
	}

	symbolExchanges := make(map[string]map[string]bool)

	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), exchangePrefix) {
			continue
		}
		exchange := strings.TrimPrefix(entry.Name(), exchangePrefix)

		symbolEntries, err := os.ReadDir(filepath.Join(root, entry.Name()))
		if err != nil {
			logger.Warn("skipping unreadable exchange partition",
				"exchange", exchange,
				"error", err)
			continue
		}

		for _, symbolEntry := range symbolEntries {
			if !symbolEntry.IsDir() || !strings.HasPrefix(symbolEntry.Name(), symbolPrefix) {
				continue
			}
			symbol := normalizeSymbol(strings.TrimPrefix(symbolEntry.Name(), symbolPrefix))

			if symbolExchanges[symbol] == nil {
				symbolExchanges[symbol] = make(map[string]bool)
			}
			symbolExchanges[symbol][exchange] = true
		}
	}

	// Keep only symbols with at least one possible pair.
	result := make(map[string][]string)
	for symbol, exchanges := range symbolExchanges {
		if len(exchanges) < 2 {
			continue
		}
		names := make([]string, 0, len(exchanges))
		for name := range exchanges {
			names = append(names, name)
		}
		sort.Strings(names)
		result[symbol] = names
	}

	logger.Info("data discovery complete",
		"root", root,
		"symbols_total", len(symbolExchanges),
		"symbols_paired", len(result))

	return result, nil
}

// FilterExchanges intersects each symbol's exchange list with the allowed
// set and drops symbols left with fewer than two venues. An empty allowed
// list keeps the map unchanged.
func FilterExchanges(symbols map[string][]string, allowed []string) map[string][]string {
	if len(allowed) == 0 {
		return symbols
	}

	allowedSet := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		allowedSet[name] = true
	}

	filtered := make(map[string][]string)
	for symbol, exchanges := range symbols {
		var kept []string
		for _, exchange := range exchanges {
			if allowedSet[exchange] {
				kept = append(kept, exchange)
			}
		}
		if len(kept) >= 2 {
			filtered[symbol] = kept
		}
	}
	return filtered
}

// normalizeSymbol converts on-disk partition names back to canonical
// slash-separated symbols. Capture writes "VIRTUAL_USDT"; older captures used
// "VIRTUAL#USDT".
func normalizeSymbol(raw string) string {
	switch {
	case strings.Contains(raw, "_USDT"):
		return strings.Replace(raw, "_USDT", "/USDT", 1)
	case strings.Contains(raw, "_USDC"):
		return strings.Replace(raw, "_USDC", "/USDC", 1)
	default:
		return strings.ReplaceAll(raw, "#", "/")
	}
}

// symbolFormats lists the on-disk directory name candidates for a canonical
// symbol, in order of likelihood.
func symbolFormats(symbol string) []string {
	return []string{
		strings.ReplaceAll(symbol, "/", "_"),
		strings.ReplaceAll(symbol, "/", "#"),
		strings.ReplaceAll(strings.ReplaceAll(symbol, "/", ""), "_", ""),
	}
}

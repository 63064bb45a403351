// Package marketdata discovers and loads captured order-book tick data.
//
// Capture jobs write top-of-book snapshots into a Hive-style partition tree:
//
//	<root>/exchange=<name>/symbol=<sym>/date=<YYYY-MM-DD>/hour=<HH>/*.csv
//
// Discovery scans the first two partition levels and reports which symbols
// trade on two or more exchanges. Loading enumerates the date/hour partitions
// for one (exchange, symbol) pair, optionally filtered by an inclusive date
// range, and returns a single chronologically sorted tick series with null
// and zero-priced rows already removed.
package marketdata

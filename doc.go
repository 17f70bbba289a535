// Package schwab turns the CSV exports of Schwab brokerage accounts into tax reports.
//
// Three exports are read:
//   - the individual account transactions (DecodeIndividual),
//   - the equity award account transactions (DecodePlan),
//   - the individual account realized gains (DecodeRealizedGains).
//
// Build classifies their rows into four tables: dividends, interest, tax deducted and
// sales. Equity award sales are exported as a "Sale" row followed by one anonymous row
// per lot sold; ReconstructSales folds them back into sale events with their cost basis
// and acquisition date. Quantities are expressed in post split shares (StockSplit).
//
// WriteReport writes the tables as CSV files. Every table is produced, possibly empty,
// and nothing is written when any export is invalid.
//
// This package serves as the foundational logic for the `srep` command-line tool.
package schwab

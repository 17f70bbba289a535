package schwab

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/etnz/schwab/date"
)

const individualCSV = `"Date","Action","Symbol","Description","Quantity","Price","Fees & Comm","Amount"
"03/28/2024","Qual Div Reinvest","VTI","VANGUARD TOTAL STOCK MARKET ETF","","","","$12.50"
"03/28/2024","Reinvest Shares","VTI","VANGUARD TOTAL STOCK MARKET ETF","0.0501","$249.50","","-$12.50"
"02/16/2024 as of 02/15/2024","NRA Tax Adj","VTI","","","","","($3.75)"
"01/31/2024","Credit Interest","","SCHWAB1 INT","","","","$0.42"

"Transactions Total","","","","","","","$0.00"
`

const planCSV = `Date,Action,Symbol,Description,Quantity,Fees & Commissions,DisbursementElection,Amount,Type,Shares,SalePrice,SubscriptionDate,SubscriptionFairMarketValue,PurchaseDate,PurchasePrice,PurchaseFairMarketValue,DispositionType,GrantId,VestDate,VestFairMarketValue,GrossProceeds
06/15/2024,Sale,AAPL,Share Sale,100,$0.12,,"$15,000.00",,,,,,,,,,,,,
,,,,,,,,RS,50,$150.00,,,,,,,12345,01/01/2024,$100.00,"$7,500.00"
,,,,,,,,ESPP,50,$150.00,07/01/2023,$80.00,12/29/2023,$68.00,$85.00,Qualified,,,,"$7,500.00"
02/15/2024,Dividend,AAPL,Credit,,,,$24.00,,,,,,,,,,,,,
`

const realizedCSV = `Realized Gain/Loss for ...XXX123 as of Sun Jan 05 2025 10:00:00 GMT
"Symbol","Name","Closed Date","Opened Date","Quantity","Closing Price","Cost Per Share","Proceeds","Cost Basis (CB)","Gain/Loss ($)"
"VTI","VANGUARD TOTAL STOCK MARKET ETF","04/01/2024","01/02/2023","2","$250.00","$200.00","$500.00","$400.00","$100.00"
"SCHD","SCHWAB US DIVIDEND EQUITY ETF","05/01/2024","Various","10","$80.00","$75.00","$800.00","$750.00","$50.00"
"Total","","","","","","","$1,300.00","$1,150.00","$150.00"
`

func TestDecodeIndividual(t *testing.T) {
	rows, err := DecodeIndividual(strings.NewReader(individualCSV))
	if err != nil {
		t.Fatalf("DecodeIndividual() unexpected error: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	if got := rows[1]; got.Line != 3 || !got.Quantity.Decimal.Equal(dec("0.0501")) || !got.Amount.Decimal.Equal(dec("-12.5")) {
		t.Errorf("row = %+v, want line 3, quantity 0.0501, amount -12.5", got)
	}
	if got := rows[2]; got.Date != date.New(2024, time.February, 16) || !got.Amount.Decimal.Equal(dec("-3.75")) {
		t.Errorf("row = %+v, want posted on 2024-02-16 for -3.75", got)
	}
	if rows[3].Quantity.Valid {
		t.Errorf("empty Quantity decoded as %v", rows[3].Quantity)
	}
}

func TestDecodePlan(t *testing.T) {
	rows, err := DecodePlan(strings.NewReader(planCSV))
	if err != nil {
		t.Fatalf("DecodePlan() unexpected error: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	if !rows[0].Amount.Decimal.Equal(dec("15000")) || rows[0].IsLot() {
		t.Errorf("sale row = %+v", rows[0])
	}
	rs := rows[1]
	if !rs.IsLot() || !rs.IsRestricted() || rs.VestDate != date.New(2024, time.January, 1) || !rs.VestFairMarketValue.Decimal.Equal(dec("100")) {
		t.Errorf("RS lot row = %+v", rs)
	}
	espp := rows[2]
	if !espp.IsLot() || espp.IsRestricted() || espp.PurchaseDate != date.New(2023, time.December, 29) || !espp.PurchaseFairMarketValue.Decimal.Equal(dec("85")) {
		t.Errorf("ESPP lot row = %+v", espp)
	}

	var sales []SaleEvent
	for sale, err := range ReconstructSales(rows, StockSplit{}) {
		if err != nil {
			t.Fatalf("ReconstructSales() unexpected error: %v", err)
		}
		sales = append(sales, sale)
	}
	if len(sales) != 1 || !sales[0].CostBasis.Equal(dec("9250")) || sales[0].PurchaseDate != date.New(2023, time.December, 29) {
		t.Errorf("sales = %+v, want one sale of basis 9250 bought 2023-12-29", sales)
	}
}

func TestDecodeRealizedGains(t *testing.T) {
	rows, err := DecodeRealizedGains(strings.NewReader(realizedCSV))
	if err != nil {
		t.Fatalf("DecodeRealizedGains() unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	vti := rows[0]
	if vti.Line != 3 || vti.ClosedDate != date.New(2024, time.April, 1) || vti.OpenedDate != date.New(2023, time.January, 2) {
		t.Errorf("row = %+v", vti)
	}
	if !vti.Proceeds.Equal(dec("500")) || !vti.CostBasis.Equal(dec("400")) {
		t.Errorf("row = %v proceeds %v basis, want 500 and 400", vti.Proceeds, vti.CostBasis)
	}
	if !rows[1].OpenedDate.IsZero() {
		t.Errorf("Various opened date decoded as %v", rows[1].OpenedDate)
	}
}

func TestDecode_Empty(t *testing.T) {
	if rows, err := DecodeIndividual(strings.NewReader("")); err != nil || len(rows) != 0 {
		t.Errorf("DecodeIndividual(\"\") = %v, %v", rows, err)
	}
	if rows, err := DecodePlan(strings.NewReader("Date,Action,Symbol,Quantity,Amount\n")); err != nil || len(rows) != 0 {
		t.Errorf("DecodePlan(header) = %v, %v", rows, err)
	}
	if rows, err := DecodeRealizedGains(strings.NewReader("title only")); err != nil || len(rows) != 0 {
		t.Errorf("DecodeRealizedGains(title) = %v, %v", rows, err)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name   string
		decode func() error
		want   error
		row    int
		column string
	}{
		{
			name: "missing column",
			decode: func() error {
				_, err := DecodeIndividual(strings.NewReader("Date,Action,Symbol\n01/02/2024,Buy,VTI\n"))
				return err
			},
			want: ErrMissingColumn, row: 1, column: "Amount",
		},
		{
			name: "missing column after title",
			decode: func() error {
				_, err := DecodeRealizedGains(strings.NewReader("title\nSymbol,Closed Date\n"))
				return err
			},
			want: ErrMissingColumn, row: 2, column: "Quantity",
		},
		{
			name: "invalid date",
			decode: func() error {
				_, err := DecodeIndividual(strings.NewReader("Date,Action,Symbol,Amount\n2024-01-02,Buy,VTI,$1\n"))
				return err
			},
			want: ErrInvalidDate, row: 2, column: "Date",
		},
		{
			name: "malformed amount",
			decode: func() error {
				_, err := DecodePlan(strings.NewReader("Date,Action,Symbol,Amount\n01/02/2024,Dividend,AAPL,$1\n01/03/2024,Dividend,AAPL,N/A\n"))
				return err
			},
			want: ErrMalformedAmount, row: 3, column: "Amount",
		},
		{
			name: "malformed lot date",
			decode: func() error {
				_, err := DecodePlan(strings.NewReader("Date,Action,Symbol,Amount,VestDate\n,,,,13/01/2024\n"))
				return err
			},
			want: ErrInvalidDate, row: 2, column: "VestDate",
		},
		{
			name: "malformed proceeds",
			decode: func() error {
				_, err := DecodeRealizedGains(strings.NewReader(strings.Replace(realizedCSV, `"$500.00"`, `""`, 1)))
				return err
			},
			want: ErrMalformedAmount, row: 3, column: "Proceeds",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.decode()
			if !errors.Is(err, tc.want) {
				t.Fatalf("got error %v, want %v", err, tc.want)
			}
			var rowErr *RowError
			if !errors.As(err, &rowErr) {
				t.Fatalf("error %v is not a *RowError", err)
			}
			if rowErr.Row != tc.row || rowErr.Column != tc.column {
				t.Errorf("error at row %d column %q, want row %d column %q", rowErr.Row, rowErr.Column, tc.row, tc.column)
			}
		})
	}
}

func TestLoadSources(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}
	paths := SourcePaths{
		Individual: write("Individual_transactions_2024.csv", individualCSV),
		Plan:       filepath.Join(dir, "EAC_transactions_2024.csv"), // missing
		Realized:   write("Individual_realized_gains_2024.csv", realizedCSV),
	}
	src, err := LoadSources(paths, nil)
	if err != nil {
		t.Fatalf("LoadSources() unexpected error: %v", err)
	}
	if len(src.Individual) != 4 || len(src.Realized) != 2 {
		t.Errorf("got %d individual and %d realized rows, want 4 and 2", len(src.Individual), len(src.Realized))
	}
	if src.Plan != nil {
		t.Errorf("missing plan file loaded as %v, want absent", src.Plan)
	}

	paths.Plan = write("EAC_transactions_2024.csv", ",,,,\n")
	if _, err := LoadSources(paths, nil); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("LoadSources() error = %v, want ErrMissingColumn", err)
	}
}

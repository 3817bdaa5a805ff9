package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"salesledger/internal/analytics"
	"salesledger/internal/config"
	"salesledger/internal/ledger"
	"salesledger/internal/logger"
	"salesledger/internal/model"
	"salesledger/internal/storage"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	var (
		seed       = flag.Bool("seed", false, "load a small demo dataset")
		report     = flag.String("report", "", "print a report: customers, products, trend, graph")
		period     = flag.String("period", "day", "trend bucket size: day, week, month")
		fillGaps   = flag.Bool("fill-gaps", false, "synthesize empty trend buckets")
		topN       = flag.Int("n", 5, "leaderboard size")
		exportJSON = flag.String("export-json", "", "dump all collections to one JSON document")
		importJSON = flag.String("import-json", "", "replace all collections from a JSON document")
		exportCSV  = flag.Bool("export-csv", false, "write per-collection CSV files to the export dir")
	)
	flag.Parse()

	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx := logger.WithOpID(context.Background(), logger.NewOpID())

	store, err := storage.Open(ctx, cfg.DataDir)
	if err != nil {
		logger.L().Fatal("open store", zap.Error(err))
	}
	repo, err := ledger.NewRepository(ctx, store)
	if err != nil {
		logger.L().Fatal("init repository", zap.Error(err))
	}
	analyzer := analytics.NewAnalyzer(repo)

	switch {
	case *seed:
		err = seedDemo(ctx, repo)
	case *report != "":
		err = printReport(ctx, analyzer, *report, *period, *fillGaps, *topN)
	case *exportJSON != "":
		err = repo.ExportJSON(ctx, *exportJSON)
	case *importJSON != "":
		err = repo.ImportJSON(ctx, *importJSON)
	case *exportCSV:
		err = repo.ExportCSV(ctx, cfg.ExportDir)
	default:
		flag.Usage()
		return
	}
	if err != nil {
		logger.L().Fatal("command failed", zap.Error(err))
	}
}

func seedDemo(ctx context.Context, repo ledger.Repository) error {
	type customerSeed struct {
		id                          int
		name, email, phone, address string
	}
	for _, c := range []customerSeed{
		{1, "Ivan Ivanov", "ivan@mail.com", "+79161234567", "Moscow"},
		{2, "Petr Petrov", "petr@mail.com", "+79169876543", "Saint Petersburg"},
		{3, "Sidor Sidorov", "sidor@mail.com", "+79165555555", "Kazan"},
	} {
		customer, err := model.NewCustomer(c.id, c.name, c.email, c.phone, c.address)
		if err != nil {
			return err
		}
		if err := repo.AddCustomer(ctx, customer); err != nil && !errors.Is(err, ledger.ErrDuplicateKey) {
			return err
		}
	}

	products := map[int]*model.Product{}
	type productSeed struct {
		id             int
		name, category string
		price          int64
		stock          int
	}
	for _, p := range []productSeed{
		{1, "Phone", "Electronics", 10000, 10},
		{2, "Laptop", "Electronics", 50000, 5},
		{3, "Book", "Books", 500, 20},
	} {
		product, err := model.NewProduct(p.id, p.name, decimal.NewFromInt(p.price), p.category, p.stock)
		if err != nil {
			return err
		}
		products[p.id] = product
		if err := repo.AddProduct(ctx, product); err != nil && !errors.Is(err, ledger.ErrDuplicateKey) {
			return err
		}
	}

	now := time.Now()
	type orderSeed struct {
		id       int
		customer int
		daysAgo  int
		items    map[int]int // product id -> quantity
	}
	for _, o := range []orderSeed{
		{1, 1, 2, map[int]int{1: 2, 3: 1}},
		{2, 1, 1, map[int]int{2: 1}},
		{3, 2, 0, map[int]int{1: 1, 3: 3}},
	} {
		customer, err := repo.GetCustomer(ctx, o.customer)
		if err != nil {
			return err
		}
		order := model.NewOrder(o.id, customer, now.AddDate(0, 0, -o.daysAgo))
		for pid, qty := range o.items {
			item, err := model.NewOrderItem(products[pid], qty)
			if err != nil {
				return err
			}
			order.AddItem(item)
		}
		if err := repo.AddOrder(ctx, order); err != nil && !errors.Is(err, ledger.ErrDuplicateKey) {
			return err
		}
	}
	return nil
}

func printReport(ctx context.Context, analyzer *analytics.Analyzer, report, period string, fillGaps bool, n int) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	switch report {
	case "customers":
		stats, err := analyzer.TopCustomers(ctx, n)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "ID\tNAME\tORDERS\tTOTAL")
		for _, s := range stats {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", s.Customer.ID, s.Customer.Name, s.OrderCount, s.TotalSpent)
		}

	case "products":
		stats, err := analyzer.TopProducts(ctx, n)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "ID\tNAME\tUNITS\tREVENUE")
		for _, s := range stats {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", s.Product.ID, s.Product.Name, s.Quantity, s.Revenue)
		}

	case "trend":
		p, err := parsePeriod(period)
		if err != nil {
			return err
		}
		trend, err := analyzer.SalesTrend(ctx, p, fillGaps)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "PERIOD\tORDERS\tTOTAL")
		for _, pt := range trend {
			fmt.Fprintf(w, "%s\t%d\t%s\n", pt.Bucket.Format("2006-01-02"), pt.OrderCount, pt.TotalAmount)
		}

	case "graph":
		g, err := analyzer.CustomerGraph(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "CUSTOMER A\tCUSTOMER B\tSHARED PRODUCTS")
		for _, e := range g.Edges {
			fmt.Fprintf(w, "%d\t%d\t%d\n", e.A, e.B, e.Weight)
		}

	default:
		return fmt.Errorf("unknown report %q", report)
	}
	return nil
}

func parsePeriod(s string) (analytics.Period, error) {
	switch s {
	case "day":
		return analytics.PeriodDay, nil
	case "week":
		return analytics.PeriodWeek, nil
	case "month":
		return analytics.PeriodMonth, nil
	}
	return 0, fmt.Errorf("unknown period %q", s)
}

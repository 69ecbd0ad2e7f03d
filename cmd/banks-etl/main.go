package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/collector"
	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/config"
	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/journal"
	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/model"
	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/pipeline"
	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/recorder"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] banks-etl starting...")

	// Optional .env for local overrides; absence is fine.
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Printf("[FATAL] %v", err)
		os.Exit(1)
	}
	log.Println("[INFO] banks-etl finished")
}

func run(cfg *config.Config) error {
	jnl := journal.New(cfg.Output.JournalPath)
	jnl.Append("Preliminaries complete. Initiating ETL process")

	fetcher := collector.NewPageFetcher(time.Duration(cfg.Source.TimeoutSeconds) * time.Second)
	extractor := collector.NewExtractor(cfg.Source.AnchorID, cfg.Source.NameColumn, cfg.Source.ValueColumn, cfg.Source.RowLimit)

	dbRec, err := recorder.NewSQLiteRecorder(cfg.Output.SQLitePath, cfg.Output.TableName)
	if err != nil {
		jnl.Append(fmt.Sprintf("FATAL: open sqlite sink: %v", err))
		return err
	}
	defer func() {
		if err := dbRec.Close(); err != nil {
			log.Printf("[WARN] close sqlite: %v", err)
		}
		jnl.Append("SQL connection closed")
	}()
	jnl.Append("SQL connection initiated")

	runner := &pipeline.Runner{
		Fetcher:   fetcher,
		Extractor: extractor,
		Sinks: []recorder.Recorder{
			recorder.NewCSVRecorder(cfg.Output.CSVPath),
			dbRec,
		},
		Journal: jnl,
		URL:     cfg.Source.URL,
		Rates:   cfg.Currencies,
	}

	rs, err := runner.Run()
	if err != nil {
		return err
	}
	printResultSet(rs)

	for _, q := range referenceQueries(cfg) {
		res, err := dbRec.Query(q)
		if err != nil {
			jnl.Append(fmt.Sprintf("FATAL: query failed: %v", err))
			return err
		}
		printQuery(q, res)
		jnl.Append("Query executed: " + q)
	}

	jnl.Append("ETL job ended")
	return nil
}

// referenceQueries are the read-back verification queries: the full
// table, the average of the first derived column, and the first five
// names.
func referenceQueries(cfg *config.Config) []string {
	table := cfg.Output.TableName
	return []string{
		fmt.Sprintf(`SELECT * FROM %q`, table),
		fmt.Sprintf(`SELECT AVG("MC_%s_Billion") FROM %q`, cfg.Currencies[0].Code, table),
		fmt.Sprintf(`SELECT Name FROM %q LIMIT 5`, table),
	}
}

func printResultSet(rs *model.ResultSet) {
	fmt.Println("--- Transformed data ---")
	fmt.Println(strings.Join(rs.Columns(), " | "))
	for i := range rs.Records {
		cells := make([]string, 0, len(rs.Currencies)+2)
		for _, v := range rs.Values(i) {
			switch x := v.(type) {
			case nil:
				cells = append(cells, "-")
			case float64:
				cells = append(cells, fmt.Sprintf("%.2f", x))
			default:
				cells = append(cells, fmt.Sprintf("%v", x))
			}
		}
		fmt.Println(strings.Join(cells, " | "))
	}
	fmt.Println(strings.Repeat("-", 30))
}

func printQuery(q string, res *recorder.QueryResult) {
	fmt.Printf("Executing query: %s\n", q)
	fmt.Println(strings.Join(res.Columns, " | "))
	for _, row := range res.Rows {
		fmt.Println(strings.Join(row, " | "))
	}
	fmt.Println(strings.Repeat("-", 30))
}

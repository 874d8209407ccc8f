// cmd/ragctl/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	pathpkg "path"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"rag-workbench/internal/agents"
	"rag-workbench/internal/archive"
	"rag-workbench/internal/arn"
	"rag-workbench/internal/chunker"
	awsclients "rag-workbench/internal/common/aws"
	"rag-workbench/internal/common/config"
	"rag-workbench/internal/common/database"
	"rag-workbench/internal/common/logger"
	"rag-workbench/internal/common/observability"
	"rag-workbench/internal/cost"
	"rag-workbench/internal/filter"
	"rag-workbench/internal/guardrail"
	"rag-workbench/internal/knowledgebase"
	"rag-workbench/internal/retrieval"
	"rag-workbench/internal/warehouse"
)

const usage = `usage: ragctl <command> [flags]

commands:
  kb-create       create a knowledge base and a data source
  ingest          start an ingestion job and wait for it
  chunk-upload    split a local document and upload pre-chunked objects
  query           retrieve passages from the knowledge base
  ask             retrieve and generate an answer with citations
  guardrail-demo  create a guardrail and invoke the model with it
  agents-demo     route a request through the configured collaborators
  table-load      stage a CSV and create database/table around it
  sql             run a SQL statement against the query engine
  cost-report     price recent token usage from the monitoring API
`

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

type app struct {
	cfg *config.Config
	log logger.Logger
	arn arn.Builder
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New("ragctl")
	defer obs.Shutdown()

	go func() {
		http.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", cfg.App.MetricsPort)
		if err := http.ListenAndServe(addr, nil); err != nil {
			zapLog.Warn("metrics listener stopped", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{
		cfg: cfg,
		log: log,
		arn: arn.New(cfg.Platform.AccountID, cfg.Platform.Region),
	}

	command := os.Args[1]
	args := os.Args[2:]

	started := time.Now()
	err = a.run(ctx, command, args, zapLog)
	obs.RecordCallDuration(ctx, time.Since(started), command)
	if err != nil {
		obs.RecordCall(ctx, command, "error")
		log.Error("command failed", map[string]interface{}{
			"command": command,
			"error":   err.Error(),
		})
		os.Exit(1)
	}
	obs.RecordCall(ctx, command, "success")
}

func (a *app) run(ctx context.Context, command string, args []string, zapLog *zap.Logger) error {
	switch command {
	case "kb-create":
		return a.kbCreate(ctx, args)
	case "ingest":
		return a.ingest(ctx, args)
	case "chunk-upload":
		return a.chunkUpload(ctx, args)
	case "query":
		return a.query(ctx, args)
	case "ask":
		return a.ask(ctx, args)
	case "guardrail-demo":
		return a.guardrailDemo(ctx, args)
	case "agents-demo":
		return a.agentsDemo(ctx, args)
	case "table-load":
		return a.tableLoad(ctx, args)
	case "sql":
		return a.sql(ctx, args)
	case "cost-report":
		return a.costReport(ctx, args, zapLog)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) kbService(ctx context.Context) (*knowledgebase.Service, error) {
	client, err := awsclients.NewKnowledgeBaseAdminClient(ctx, a.cfg.Platform.Region)
	if err != nil {
		return nil, err
	}
	return knowledgebase.NewService(&knowledgebase.Config{
		EmbeddingModelArn: a.arn.FoundationModel(a.cfg.Knowledge.EmbeddingModelID),
		StorageRoleArn:    a.cfg.Knowledge.StorageRoleArn,
		CollectionArn:     a.cfg.Knowledge.CollectionArn,
		VectorIndexName:   a.cfg.Knowledge.VectorIndexName,
		SourceBucketArn:   arn.Bucket(a.cfg.Knowledge.SourceBucket),
		SourcePrefix:      a.cfg.Knowledge.SourcePrefix,
		PollInterval:      time.Duration(a.cfg.Knowledge.IngestPollSeconds) * time.Second,
		IngestTimeout:     time.Duration(a.cfg.Knowledge.IngestTimeoutSeconds) * time.Second,
	}, client, a.log), nil
}

func (a *app) kbCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("kb-create", flag.ExitOnError)
	name := fs.String("name", "workbench-kb", "knowledge base name")
	strategy := fs.String("chunking", "fixed", "chunking strategy: fixed|semantic|hierarchical|none")
	fs.Parse(args)

	svc, err := a.kbService(ctx)
	if err != nil {
		return err
	}

	kb, err := svc.CreateKnowledgeBase(ctx, *name, "created by ragctl")
	if err != nil {
		return err
	}
	fmt.Printf("knowledge base %s (%s)\n", kb.ID, kb.Status)

	spec, err := chunkingSpec(*strategy)
	if err != nil {
		return err
	}
	ds, err := svc.CreateDataSource(ctx, kb.ID, *name+"-source", spec)
	if err != nil {
		return err
	}
	fmt.Printf("data source %s (%s)\n", ds.ID, ds.Status)
	return nil
}

func chunkingSpec(strategy string) (knowledgebase.ChunkingSpec, error) {
	switch strategy {
	case "fixed":
		return knowledgebase.DefaultFixedChunking(), nil
	case "semantic":
		spec := knowledgebase.ChunkingSpec{Strategy: knowledgebase.ChunkingSemantic}
		spec.Semantic.MaxTokens = 300
		spec.Semantic.BufferSize = 1
		spec.Semantic.BreakpointPercentile = 95
		return spec, nil
	case "hierarchical":
		spec := knowledgebase.ChunkingSpec{Strategy: knowledgebase.ChunkingHierarchical}
		spec.Hierarchical.ParentMaxTokens = 1500
		spec.Hierarchical.ChildMaxTokens = 300
		spec.Hierarchical.OverlapTokens = 60
		return spec, nil
	case "none":
		return knowledgebase.ChunkingSpec{Strategy: knowledgebase.ChunkingNone}, nil
	default:
		return knowledgebase.ChunkingSpec{}, fmt.Errorf("unknown chunking strategy %q", strategy)
	}
}

func (a *app) ingest(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	kbID := fs.String("kb", a.cfg.Knowledge.KnowledgeBaseID, "knowledge base id")
	dsID := fs.String("ds", a.cfg.Knowledge.DataSourceID, "data source id")
	fs.Parse(args)

	svc, err := a.kbService(ctx)
	if err != nil {
		return err
	}

	jobID, err := svc.StartIngestion(ctx, *kbID, *dsID)
	if err != nil {
		return err
	}
	fmt.Printf("ingestion job %s started, waiting...\n", jobID)

	result, err := svc.WaitForIngestion(ctx, *kbID, *dsID, jobID)
	if err != nil {
		return err
	}
	fmt.Printf("ingestion %s: scanned=%d indexed=%d failed=%d\n",
		result.Status, result.DocumentsScanned, result.DocumentsIndexed, result.DocumentsFailed)

	a.notify(ctx, fmt.Sprintf("ingestion job %s finished with status %s", jobID, result.Status))
	return nil
}

func (a *app) chunkUpload(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("chunk-upload", flag.ExitOnError)
	path := fs.String("file", "", "local text file to split and upload")
	company := fs.String("company", "", "company metadata attribute")
	year := fs.Int("year", 0, "year metadata attribute")
	docType := fs.String("doctype", "report", "docType metadata attribute")
	fs.Parse(args)

	if *path == "" {
		return fmt.Errorf("-file is required")
	}
	text, err := os.ReadFile(*path)
	if err != nil {
		return err
	}

	store, err := awsclients.NewS3Client(ctx, a.cfg.Platform.Region)
	if err != nil {
		return err
	}
	svc := chunker.NewService(&chunker.Config{
		Bucket: a.cfg.Knowledge.SourceBucket,
		Prefix: a.cfg.Knowledge.SourcePrefix,
	}, store, a.log)

	uploaded, err := svc.SplitAndUpload(ctx, chunker.Document{
		Name:    strings.TrimSuffix(*path, ".txt"),
		Text:    string(text),
		Company: *company,
		Year:    *year,
		DocType: *docType,
	})
	if err != nil {
		return err
	}
	fmt.Printf("uploaded %d chunks\n", len(uploaded))
	return nil
}

func (a *app) retrievalService(ctx context.Context) (*retrieval.Service, error) {
	client, err := awsclients.NewRetrievalClient(ctx, a.cfg.Platform.Region)
	if err != nil {
		return nil, err
	}

	redisClient, err := database.NewRedis(a.cfg.Database.Redis)
	if err != nil || redisClient.Ping(ctx) != nil {
		// Cache is optional; run without it.
		return retrieval.NewService(&retrieval.Config{
			DefaultTopK: a.cfg.Knowledge.TopK,
			CacheTTL:    time.Duration(a.cfg.Knowledge.CacheTTLSeconds) * time.Second,
		}, client, nil, a.log), nil
	}

	return retrieval.NewService(&retrieval.Config{
		DefaultTopK: a.cfg.Knowledge.TopK,
		CacheTTL:    time.Duration(a.cfg.Knowledge.CacheTTLSeconds) * time.Second,
	}, client, redisClient.GetClient(), a.log), nil
}

func parseCriteria(fs *flag.FlagSet) (*string, *string, *string, *string) {
	company := fs.String("company", "", "filter: company equals")
	years := fs.String("years", "", "filter: comma-separated years")
	docType := fs.String("doctype", "", "filter: docType equals")
	uriPrefix := fs.String("uri-prefix", "", "filter: source uri prefix")
	return company, years, docType, uriPrefix
}

func buildCriteria(company, years, docType, uriPrefix string) (filter.Criteria, error) {
	crit := filter.Criteria{
		Company:   company,
		DocType:   docType,
		URIPrefix: uriPrefix,
	}
	if years != "" {
		for _, part := range strings.Split(years, ",") {
			var y int
			if _, err := fmt.Sscanf(strings.TrimSpace(part), "%d", &y); err != nil {
				return crit, fmt.Errorf("bad year %q", part)
			}
			crit.Years = append(crit.Years, y)
		}
	}
	return crit, nil
}

func (a *app) query(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	text := fs.String("q", "", "query text")
	topK := fs.Int("k", 0, "number of passages")
	company, years, docType, uriPrefix := parseCriteria(fs)
	doArchive := fs.Bool("archive", false, "archive the run in elasticsearch")
	fs.Parse(args)

	if *text == "" {
		return fmt.Errorf("-q is required")
	}

	crit, err := buildCriteria(*company, *years, *docType, *uriPrefix)
	if err != nil {
		return err
	}

	svc, err := a.retrievalService(ctx)
	if err != nil {
		return err
	}

	passages, err := svc.Retrieve(ctx, retrieval.Query{
		KnowledgeBaseID: a.cfg.Knowledge.KnowledgeBaseID,
		Text:            *text,
		TopK:            *topK,
		Filter:          crit.Build(),
	})
	if err != nil {
		return err
	}

	for i, p := range passages {
		fmt.Printf("[%d] score=%.4f source=%s\n%s\n\n", i+1, p.Score, p.Source, p.Text)
	}

	if *doArchive {
		es, err := database.NewElasticsearch(a.cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		arch := archive.NewService(es.GetClient(), a.cfg.Database.Elasticsearch.Index, a.log)
		runID, err := arch.ArchiveRun(ctx, a.cfg.Knowledge.KnowledgeBaseID, *text, passages)
		if err != nil {
			return err
		}
		fmt.Printf("archived as run %s\n", runID)
	}
	return nil
}

func (a *app) ask(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	text := fs.String("q", "", "question")
	session := fs.String("session", "", "session id to continue")
	profile := fs.String("profile", "", "generate through an inference profile instead of the model")
	withGuardrail := fs.Bool("guardrail", false, "attach the configured guardrail")
	company, years, docType, uriPrefix := parseCriteria(fs)
	fs.Parse(args)

	if *text == "" {
		return fmt.Errorf("-q is required")
	}

	crit, err := buildCriteria(*company, *years, *docType, *uriPrefix)
	if err != nil {
		return err
	}

	svc, err := a.retrievalService(ctx)
	if err != nil {
		return err
	}

	modelArn := a.arn.FoundationModel(a.cfg.Knowledge.GenerationModelID)
	if *profile != "" {
		modelArn = a.arn.InferenceProfile(*profile)
	}

	req := retrieval.GenerateRequest{
		Query: retrieval.Query{
			KnowledgeBaseID: a.cfg.Knowledge.KnowledgeBaseID,
			Text:            *text,
			Filter:          crit.Build(),
		},
		ModelArn:  modelArn,
		SessionID: *session,
	}
	if *withGuardrail {
		req.GuardrailID = a.cfg.Guardrail.GuardrailID
		req.GuardrailVersion = a.cfg.Guardrail.Version
	}

	answer, err := svc.Ask(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n\nsession: %s\n", answer.Text, answer.SessionID)
	for i, c := range answer.Citations {
		fmt.Printf("  [%d] %s\n", i+1, c.Source)
	}
	return nil
}

func (a *app) guardrailDemo(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("guardrail-demo", flag.ExitOnError)
	prompt := fs.String("q", "Give me financial advice on which stocks to buy.", "prompt to test")
	fs.Parse(args)

	admin, err := awsclients.NewGuardrailAdminClient(ctx, a.cfg.Platform.Region)
	if err != nil {
		return err
	}
	model, err := awsclients.NewModelClient(ctx, a.cfg.Platform.Region)
	if err != nil {
		return err
	}
	svc := guardrail.NewService(admin, model, a.log)

	info, err := svc.Create(ctx, guardrail.Spec{
		Name:        "workbench-demo",
		Description: "blocks financial advice",
		DeniedTopics: []guardrail.Topic{{
			Name:       "FinancialAdvice",
			Definition: "Recommendations about investments, stocks or asset allocation.",
			Examples:   []string{"Which stocks should I buy?"},
		}},
		ContentFilters: []guardrail.ContentFilter{
			{Category: "HATE", InputStrength: "HIGH", OutputStrength: "HIGH"},
			{Category: "VIOLENCE", InputStrength: "MEDIUM", OutputStrength: "MEDIUM"},
		},
		ProfanityList: true,
	})
	if err != nil {
		return err
	}
	fmt.Printf("guardrail %s version %s\n  %s\n", info.ID, info.Version, a.arn.Guardrail(info.ID))

	version, err := svc.PublishVersion(ctx, info.ID, "ragctl demo")
	if err != nil {
		return err
	}

	reply, err := svc.Converse(ctx, a.cfg.Knowledge.GenerationModelID, info.ID, version, *prompt)
	if err != nil {
		return err
	}
	if reply.Intervened {
		fmt.Println("guardrail intervened:")
	}
	fmt.Println(reply.Text)
	return nil
}

func (a *app) agentsDemo(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("agents-demo", flag.ExitOnError)
	input := fs.String("q", "", "request to orchestrate")
	mode := fs.String("mode", "route", "route|pipeline|fanout")
	fs.Parse(args)

	if *input == "" {
		return fmt.Errorf("-q is required")
	}

	client, err := awsclients.NewRetrievalClient(ctx, a.cfg.Platform.Region)
	if err != nil {
		return err
	}

	collaborators := make([]agents.Collaborator, 0, len(a.cfg.Agents.Collaborators))
	for _, c := range a.cfg.Agents.Collaborators {
		a.log.Debug("collaborator configured", map[string]interface{}{
			"name": c.Name,
			"arn":  a.arn.AgentAlias(c.AgentID, c.AliasID),
		})
		collaborators = append(collaborators, agents.Collaborator{
			Name:     c.Name,
			AgentID:  c.AgentID,
			AliasID:  c.AliasID,
			Keywords: c.Keywords,
		})
	}

	sup := agents.NewSupervisor(collaborators, agents.NewRuntimeInvoker(client), a.log)

	var conv *agents.Conversation
	switch *mode {
	case "route":
		conv, err = sup.Route(ctx, *input)
	case "pipeline":
		conv, err = sup.RunPipeline(ctx, *input)
	case "fanout":
		conv, err = sup.FanOut(ctx, *input)
	default:
		return fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		return err
	}

	out, _ := json.MarshalIndent(conv, "", "  ")
	fmt.Println(string(out))
	return nil
}

func (a *app) warehouseService(ctx context.Context) (*warehouse.Service, error) {
	engine, err := awsclients.NewQueryEngineClient(ctx, a.cfg.Platform.Region)
	if err != nil {
		return nil, err
	}
	store, err := awsclients.NewS3Client(ctx, a.cfg.Platform.Region)
	if err != nil {
		return nil, err
	}
	return warehouse.NewService(&warehouse.Config{
		Region:        a.cfg.Platform.Region,
		Bucket:        a.cfg.Warehouse.Bucket,
		DataPrefix:    a.cfg.Warehouse.DataPrefix,
		ResultsPrefix: a.cfg.Warehouse.ResultsPrefix,
		Database:      a.cfg.Warehouse.Database,
		WorkGroup:     a.cfg.Warehouse.WorkGroup,
		PollInterval:  time.Duration(a.cfg.Warehouse.PollSeconds) * time.Second,
		QueryTimeout:  time.Duration(a.cfg.Warehouse.QueryTimeoutSecond) * time.Second,
	}, engine, store, a.log), nil
}

func (a *app) tableLoad(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("table-load", flag.ExitOnError)
	path := fs.String("file", "", "local CSV file")
	table := fs.String("table", "", "table name")
	columns := fs.String("columns", "", "comma-separated name:type pairs")
	fs.Parse(args)

	if *path == "" || *table == "" || *columns == "" {
		return fmt.Errorf("-file, -table and -columns are required")
	}
	csv, err := os.ReadFile(*path)
	if err != nil {
		return err
	}

	var cols []warehouse.Column
	for _, pair := range strings.Split(*columns, ",") {
		name, typ, ok := strings.Cut(pair, ":")
		if !ok {
			return fmt.Errorf("bad column spec %q", pair)
		}
		cols = append(cols, warehouse.Column{Name: name, Type: typ})
	}

	svc, err := a.warehouseService(ctx)
	if err != nil {
		return err
	}

	if err := svc.EnsureBucket(ctx); err != nil {
		return err
	}
	uri, err := svc.UploadDataset(ctx, *table+".csv", csv)
	if err != nil {
		return err
	}
	if err := svc.EnsureDatabase(ctx); err != nil {
		return err
	}
	bucket, key, err := arn.SplitS3URI(uri)
	if err != nil {
		return err
	}
	location := arn.S3URI(bucket, pathpkg.Dir(key)) + "/"
	if err := svc.EnsureTable(ctx, warehouse.TableSpec{
		Name:       *table,
		Columns:    cols,
		Location:   location,
		SkipHeader: true,
	}); err != nil {
		return err
	}

	fmt.Printf("table %s.%s ready at %s\n", a.cfg.Warehouse.Database, *table, location)
	return nil
}

func (a *app) sql(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sql", flag.ExitOnError)
	statement := fs.String("q", "", "SQL statement")
	fs.Parse(args)

	if *statement == "" {
		return fmt.Errorf("-q is required")
	}

	svc, err := a.warehouseService(ctx)
	if err != nil {
		return err
	}

	result, err := svc.Query(ctx, *statement)
	if err != nil {
		return err
	}

	fmt.Println(strings.Join(result.Columns, "\t"))
	for _, row := range result.Rows {
		fmt.Println(strings.Join(row, "\t"))
	}
	return nil
}

func (a *app) costReport(ctx context.Context, args []string, zapLog *zap.Logger) error {
	fs := flag.NewFlagSet("cost-report", flag.ExitOnError)
	hours := fs.Int("hours", 24, "report window in hours")
	email := fs.Bool("email", false, "email the report to the configured recipients")
	recent := fs.Int("recent", 0, "also print the last N recorded usage rows")
	fs.Parse(args)

	monitoring, err := awsclients.NewMonitoringClient(ctx, a.cfg.Platform.Region)
	if err != nil {
		return err
	}

	var mail *awsclients.SESClient
	if *email {
		if mail, err = awsclients.NewSESClient(ctx, a.cfg.Platform.Region); err != nil {
			return err
		}
	}

	var history *cost.History
	if a.cfg.Database.Postgres.Host != "" {
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(a.cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 3, 2*time.Second, zapLog, "postgres connection")
		if err != nil {
			zapLog.Warn("running without cost history", zap.Error(err))
		} else {
			defer pg.Close()
			history = cost.NewHistory(pg.GetDB())
		}
	}

	costCfg := &cost.Config{
		Prices:    cost.DefaultPriceTable().Merge(a.cfg.Cost.InputPricePer1K, a.cfg.Cost.OutputPricePer1K),
		FromEmail: a.cfg.Cost.ReportFromEmail,
		ToEmails:  a.cfg.Cost.ReportToEmails,
	}

	var svc *cost.Service
	if mail != nil {
		svc = cost.NewService(costCfg, monitoring, mail, history, a.log)
	} else {
		svc = cost.NewService(costCfg, monitoring, nil, history, a.log)
	}

	modelIDs := []string{
		a.cfg.Knowledge.GenerationModelID,
		a.cfg.Knowledge.EmbeddingModelID,
	}
	end := time.Now().UTC()
	report, err := svc.Estimate(ctx, modelIDs, end.Add(-time.Duration(*hours)*time.Hour), end)
	if err != nil {
		return err
	}

	fmt.Print(cost.Render(report))

	if *recent > 0 {
		if history == nil {
			return fmt.Errorf("-recent needs a reachable history database")
		}
		rows, err := history.Recent(ctx, *recent)
		if err != nil {
			return err
		}
		fmt.Println("\nrecorded usage, newest first:")
		for _, r := range rows {
			fmt.Printf("%-45s in=%10.0f out=%10.0f $%.4f\n",
				r.ModelID, r.InputTokens, r.OutputTokens, r.CostUSD)
		}
	}

	if *email {
		if err := svc.Email(ctx, report); err != nil {
			return err
		}
		fmt.Println("report emailed")
	}
	return nil
}

// notify publishes a short status message to the configured topic, if any.
func (a *app) notify(ctx context.Context, message string) {
	if a.cfg.Cost.SNSTopicArn == "" {
		return
	}
	client, err := awsclients.NewSNSClient(ctx, a.cfg.Platform.Region)
	if err != nil {
		a.log.Warn("sns client init failed", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := client.PublishStatus(ctx, a.cfg.Cost.SNSTopicArn, message); err != nil {
		a.log.Warn("status publish failed", map[string]interface{}{"error": err.Error()})
	}
}

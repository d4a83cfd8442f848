package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/brandpulse/content-orchestrator/internal/agent"
	"github.com/brandpulse/content-orchestrator/internal/config"
	"github.com/brandpulse/content-orchestrator/internal/domain"
	"github.com/brandpulse/content-orchestrator/internal/ledger"
	"github.com/brandpulse/content-orchestrator/internal/llm"
	"github.com/brandpulse/content-orchestrator/internal/notify"
	"github.com/brandpulse/content-orchestrator/internal/observer"
	"github.com/brandpulse/content-orchestrator/internal/schedule"
	"github.com/brandpulse/content-orchestrator/internal/seed"
	"github.com/brandpulse/content-orchestrator/internal/store"
	"github.com/brandpulse/content-orchestrator/tui"
	"github.com/brandpulse/content-orchestrator/web/api"
)

var (
	servePort     int
	jobsLimit     int
	fetchIndustry string
	seedFile      string
)

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API server, scheduler and config watcher",
		RunE:  runServe,
	}
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show current status",
		RunE:  runStatus,
	}
	rootCmd.AddCommand(statusCmd)

	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "List recent jobs",
		RunE:  runJobs,
	}
	jobsCmd.Flags().IntVar(&jobsLimit, "limit", 20, "number of jobs to show")
	rootCmd.AddCommand(jobsCmd)

	fetchCmd := &cobra.Command{
		Use:   "fetch-news",
		Short: "Run a news fetch and wait for it to finish",
		RunE:  runFetchNews,
	}
	fetchCmd.Flags().StringVar(&fetchIndustry, "industry", "", "industry to search (defaults to company settings)")
	rootCmd.AddCommand(fetchCmd)

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed writers and company settings",
		RunE:  runSeed,
	}
	seedCmd.Flags().StringVar(&seedFile, "file", "", "seed YAML file (defaults to the built-in seed)")
	rootCmd.AddCommand(seedCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch the monitoring dashboard",
		RunE:  runTUI,
	}
	rootCmd.AddCommand(tuiCmd)
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	return config.Load(path)
}

func openStore(cfg *config.Config) (*store.Store, error) {
	return store.New(cfg.General.DatabasePath)
}

func buildNotifier(cfg *config.Config) notify.Notifier {
	notifiers := []notify.Notifier{
		notify.NewDesktopNotifier(cfg.Notifications.Desktop),
	}
	if cfg.Notifications.SlackWebhook != "" {
		notifiers = append(notifiers, notify.NewSlackNotifier(cfg.Notifications.SlackWebhook))
	}
	return notify.NewMultiNotifier(notifiers...)
}

func buildLLM(cfg *config.Config) (llm.Client, error) {
	client, err := llm.NewOpenAIClient(os.Getenv("OPENAI_API_KEY"), cfg.LLM.Model)
	if err != nil {
		return nil, err
	}
	if cfg.LLM.TimeoutSeconds > 0 {
		client.SetTimeout(time.Duration(cfg.LLM.TimeoutSeconds) * time.Second)
	}
	return client, nil
}

// scheduleTasks derives the recurring task set from agent settings
func scheduleTasks(st *store.Store, runner *agent.Runner) ([]schedule.Task, error) {
	as, err := st.GetAgentSettings()
	if err != nil {
		return nil, err
	}
	if !as.AutoFetch {
		return nil, nil
	}
	return []schedule.Task{{
		Name: "news-fetch",
		Cron: as.FetchCron,
		Run: func() error {
			_, err := runner.StartNewsFetch("")
			return err
		},
	}}, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	led := ledger.New(st)
	led.SetNotifier(buildNotifier(cfg))

	llmClient, err := buildLLM(cfg)
	if err != nil {
		return err
	}

	super := agent.NewSupervisor()
	runner := agent.NewRunner(st, led, llmClient, super)

	port := servePort
	if port == 0 {
		port = cfg.Web.Port
	}
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, port)

	server := api.NewServer(st, runner, addr)
	httpSrv := &http.Server{Addr: addr, Handler: server.Handler()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sched *schedule.Scheduler
	if cfg.Schedule.Enabled {
		tasks, err := scheduleTasks(st, runner)
		if err != nil {
			return err
		}
		if sched, err = schedule.NewScheduler(tasks...); err != nil {
			return err
		}
	}

	// Hot-reload notification settings when the config file changes
	cfgPath := configPath
	if cfgPath == "" {
		cfgPath = config.DefaultConfigPath()
	}
	watcher, err := observer.NewConfigWatcher(func(path string) {
		fresh, err := config.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config reload failed: %v\n", err)
			return
		}
		led.SetNotifier(buildNotifier(fresh))
		fmt.Println("Config reloaded")
	})
	if err != nil {
		return err
	}
	_ = watcher.AddFile(cfgPath)
	watcher.Start(ctx)
	defer watcher.Stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fmt.Printf("Listening on http://%s\n", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if sched != nil {
		g.Go(func() error {
			sched.Start()
			return nil
		})

		// Pick up agent settings edits made through the API
		g.Go(func() error {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					tasks, err := scheduleTasks(st, runner)
					if err != nil {
						continue
					}
					if err := sched.Reload(tasks); err != nil {
						fmt.Fprintf(os.Stderr, "schedule reload failed: %v\n", err)
					}
				}
			}
		})
	}

	// Flag jobs that stopped reporting progress and collect completion metrics
	obs := observer.New(30 * time.Minute)
	g.Go(func() error {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		warned := make(map[int64]bool)
		recorded := make(map[int64]bool)
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				jobs, err := st.ListJobs(100)
				if err != nil {
					continue
				}
				for _, j := range jobs {
					if obs.IsStuck(j) && !warned[j.ID] {
						warned[j.ID] = true
						led.Log(j.ID, "No progress for over 30 minutes")
					}
					if j.Status.Terminal() && !recorded[j.ID] && j.StartedAt != nil && j.FinishedAt != nil {
						recorded[j.ID] = true
						obs.RecordCompletion(j.AgentType, j.FinishedAt.Sub(*j.StartedAt), j.Status == domain.JobSuccess)
					}
				}
				if recent := obs.RecentCompletions(5 * time.Minute); len(recent) > 0 {
					m := obs.GetMetrics()
					fmt.Printf("agents: %d finished in the last 5m (%d ok, %d failed, avg %s)\n",
						len(recent), m.TotalCompleted, m.TotalFailed, m.AvgDuration.Round(time.Second))
				}
			}
		}
	})

	g.Go(func() error {
		<-ctx.Done()

		if sched != nil {
			sched.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)

		// Let in-flight agent pipelines write their terminal state
		return super.Drain(shutdownCtx)
	})

	return g.Wait()
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	jobs, err := st.ListJobs(100)
	if err != nil {
		return err
	}

	var running, success, failed, cancelled int
	for _, j := range jobs {
		switch j.Status {
		case domain.JobRunning, domain.JobQueued:
			running++
		case domain.JobSuccess:
			success++
		case domain.JobFailed:
			failed++
		case domain.JobCancelled:
			cancelled++
		}
	}

	unread, err := st.UnreadNotificationCount()
	if err != nil {
		return err
	}

	fmt.Printf("Jobs: %d running | %d succeeded | %d failed | %d cancelled\n",
		running, success, failed, cancelled)
	fmt.Printf("Unread notifications: %d\n", unread)

	return nil
}

func runJobs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	jobs, err := st.ListJobs(jobsLimit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAGENT\tSTATUS\tPROGRESS\tMESSAGE")
	for _, j := range jobs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d%%\t%s\n",
			j.ID, j.AgentType, j.Status, j.Progress, j.Message)
	}
	w.Flush()

	return nil
}

func runFetchNews(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	led := ledger.New(st)
	led.SetNotifier(buildNotifier(cfg))

	llmClient, err := buildLLM(cfg)
	if err != nil {
		return err
	}

	super := agent.NewSupervisor()
	runner := agent.NewRunner(st, led, llmClient, super)

	jobID, err := runner.StartNewsFetch(fetchIndustry)
	if err != nil {
		return err
	}
	fmt.Printf("Started news fetch (job #%d)\n", jobID)

	// Poll until the job reaches a terminal state
	lastMessage := ""
	deadline := time.Now().Add(5 * time.Minute)
	for time.Now().Before(deadline) {
		job, err := st.GetJob(jobID)
		if err != nil {
			return err
		}
		if job.Message != lastMessage {
			fmt.Printf("  [%3d%%] %s\n", job.Progress, job.Message)
			lastMessage = job.Message
		}
		if job.Status.Terminal() {
			fmt.Printf("Job #%d finished: %s\n", jobID, job.Status)
			return nil
		}
		time.Sleep(time.Second)
	}

	return fmt.Errorf("job #%d did not finish within 5 minutes", jobID)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	var data *seed.File
	if seedFile != "" {
		data, err = seed.Load(seedFile)
	} else if cfg.General.SeedPath != "" {
		data, err = seed.Load(cfg.General.SeedPath)
	} else {
		data, err = seed.Default()
	}
	if err != nil {
		return err
	}

	created, err := seed.Apply(st, data)
	if err != nil {
		return err
	}
	fmt.Printf("Seeded %d writers\n", created)

	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	model := tui.NewModel(st)
	p := tea.NewProgram(model, tea.WithAltScreen())

	_, err = p.Run()
	return err
}

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"blogflow/agents"
	"blogflow/generator"
	"blogflow/pipeline"
	"blogflow/publisher"
	"blogflow/search"
	"blogflow/server"
	"blogflow/ui"
)

var verbose bool

func main() {
	log.SetFlags(log.LstdFlags)
	topic := flag.String("topic", "", "topic for the article")
	stylePath := flag.String("style", "", "path to a style guide file (yaml or plain text)")
	configPath := flag.String("config", "config.json", "path to config.json")
	outDir := flag.String("out", "", "output directory (overrides config.output_dir)")
	serve := flag.Bool("serve", false, "start the HTTP run API instead of a CLI run")
	addr := flag.String("addr", "", "http listen address when --serve (overrides config.server_addr)")
	offline := flag.Bool("offline", false, "use the mock model and no search (local demo, no API key needed)")
	flag.BoolVar(&verbose, "v", false, "enable verbose logs")
	flag.BoolVar(&verbose, "verbose", false, "enable verbose logs")
	flag.Parse()

	cfg, err := pipeline.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render(err.Error()))
		os.Exit(1)
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}
	if !*offline {
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render(err.Error()))
			fmt.Fprintln(os.Stderr, ui.DimStyle.Render("copy .env.example to .env and fill in your key"))
			os.Exit(1)
		}
	}

	orch, err := buildOrchestrator(cfg, *offline)
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render(err.Error()))
		os.Exit(1)
	}

	if *serve {
		srv, err := server.New(orch, log.Default())
		if err != nil {
			fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render(err.Error()))
			os.Exit(1)
		}
		listen := cfg.ServerAddr
		if *addr != "" {
			listen = *addr
		}
		if listen == "" {
			listen = ":8080"
		}
		log.Printf("[cli] starting run API on %s", listen)
		if err := http.ListenAndServe(listen, srv.Routes()); err != nil {
			fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render(err.Error()))
			os.Exit(1)
		}
		return
	}

	if *topic == "" {
		fmt.Fprintln(os.Stderr, "--topic is required (or use --serve)")
		os.Exit(1)
	}

	// CLI runs narrate progress through stage headers; agent logs stay
	// behind -v.
	if !verbose {
		log.SetOutput(io.Discard)
	}

	fmt.Println(ui.Banner())

	var style *pipeline.StyleGuide
	if *stylePath != "" {
		sg, err := pipeline.LoadStyleGuide(*stylePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, ui.WarnStyle.Render(fmt.Sprintf("style guide not loaded, using default: %v", err)))
		} else {
			fmt.Println(ui.SuccessStyle.Render("loaded style guide " + *stylePath))
			style = &sg
		}
	}

	orch.OnStage(func(n int, name string) {
		fmt.Println()
		fmt.Println(ui.StageHeader(n, name))
	})

	result, err := orch.Run(context.Background(), *topic, style)
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render("pipeline failed: "+err.Error()))
		os.Exit(1)
	}

	printSummary(result)
}

func buildOrchestrator(cfg pipeline.Config, offline bool) (*pipeline.Orchestrator, error) {
	llm, err := buildLLM(cfg, offline)
	if err != nil {
		return nil, err
	}

	var searchClient search.Client
	var fetcher *search.PageFetcher
	if offline {
		searchClient = &search.MockClient{}
	} else if cfg.Search != nil && cfg.Search.APIKey != "" {
		searchClient, err = search.NewGoogleClient(cfg.Search.APIKey, cfg.Search.EngineID)
		if err != nil {
			return nil, err
		}
		if cfg.Search.FetchPages {
			fetcher = search.NewPageFetcher()
		}
	} else {
		log.Printf("[cli] no search configured; researcher runs on model knowledge only")
	}

	researcher, err := agents.NewResearcher(llm, searchClient, fetcher, cfg.MaxResults, cfg.MaxNuggets, log.Default())
	if err != nil {
		return nil, err
	}
	writer, err := agents.NewWriter(llm, log.Default())
	if err != nil {
		return nil, err
	}
	seo, err := agents.NewSEO(llm, log.Default())
	if err != nil {
		return nil, err
	}
	editor, err := agents.NewEditor(llm, cfg.Threshold, cfg.MaxRevs, log.Default())
	if err != nil {
		return nil, err
	}
	pub, err := publisher.New(cfg.OutputDir, log.Default())
	if err != nil {
		return nil, err
	}

	return pipeline.NewOrchestrator(cfg, researcher, writer, seo, editor, pub, log.Default())
}

func buildLLM(cfg pipeline.Config, offline bool) (generator.LLMClient, error) {
	if offline {
		return &generator.MockLLM{}, nil
	}
	if cfg.LLM == nil || cfg.LLM.Provider == "" {
		return nil, fmt.Errorf("llm config missing; set llm.provider/model and the api key")
	}
	switch cfg.LLM.Provider {
	case "openai":
		return generator.NewOpenAILLM(&generator.Settings{
			Provider: cfg.LLM.Provider,
			Model:    cfg.LLM.Model,
			APIKey:   cfg.LLM.APIKey,
			BaseURL:  cfg.LLM.BaseURL,
		})
	case "deepseek":
		// OpenAI-compatible endpoint; base_url is mandatory.
		if cfg.LLM.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		return generator.NewOpenAILLM(&generator.Settings{
			Provider: cfg.LLM.Provider,
			Model:    cfg.LLM.Model,
			APIKey:   cfg.LLM.APIKey,
			BaseURL:  cfg.LLM.BaseURL,
		})
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}

func printSummary(result *pipeline.Result) {
	fmt.Println()
	fmt.Println(ui.SuccessStyle.Render("article generation complete"))
	if result.OutputPath != "" {
		fmt.Printf("saved to: %s\n", result.OutputPath)
	}
	fmt.Println("statistics:")
	fmt.Printf("  drafts: %d\n", result.Drafts)
	fmt.Printf("  reviews: %d\n", len(result.Verdicts))
	fmt.Printf("  score: %s\n", ui.ScoreStyle.Render(fmt.Sprintf("%.1f/10", result.Article.Score)))
	fmt.Printf("  keywords: %d\n", len(result.Keywords))
	fmt.Printf("  sources: %d\n", result.Article.SourceCount)
	if result.ForcedStop {
		fmt.Println(ui.WarnStyle.Render("revision budget exhausted; best-scoring draft was kept"))
	}
	fmt.Println()
	fmt.Println(ui.DimStyle.Render(result.Report))
}

// Command outlai is an interactive shell over the expense-tracking
// backend. One process is one session: the login cookie lives in the
// client's in-memory jar and dies with the process.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"outlai/internal/api"
	"outlai/internal/cli"
	"outlai/internal/config"
	"outlai/internal/core"
	"outlai/internal/dashboard"
	"outlai/internal/extract"
	"outlai/internal/log"
	"outlai/internal/services"
	"outlai/internal/state"
)

type app struct {
	cfg        *config.Config
	auth       *services.AuthService
	session    *state.Session
	collection *state.Collection
	staging    *state.Staging
	extractor  *extract.Adapter
	dashboard  *dashboard.Aggregator
}

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("OUTLAI_LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel)

	client, err := api.New(cfg.BaseURL, cfg.HTTPTimeout, logger.WithComponent(log.ComponentAPI))
	if err != nil {
		logger.Error("Failed to create API client", log.FieldError, err.Error())
		os.Exit(1)
	}

	auth := services.NewAuthService(client)
	expenses := services.NewExpenseService(client)

	a := &app{
		cfg:     cfg,
		auth:    auth,
		session: state.NewSession(auth, logger.WithComponent(log.ComponentSession)),
		collection: state.NewCollection(expenses, state.Filters{
			Page:     cfg.DefaultPage,
			Limit:    cfg.DefaultLimit,
			Category: cfg.DefaultCategory,
		}, logger.WithComponent(log.ComponentExpenses)),
		staging:   state.NewStaging(expenses, logger.WithComponent(log.ComponentStaging)),
		extractor: extract.NewAdapter(expenses, logger.WithComponent(log.ComponentExtract)),
		dashboard: dashboard.NewAggregator(expenses, dashboard.Options{
			BulkLimit:   cfg.DashboardBulkLimit,
			TrendMonths: cfg.DashboardTrendMonths,
			CacheTTL:    cfg.DashboardCacheTTL,
		}, logger.WithComponent(log.ComponentDashboard)),
	}

	ctx, cancel := cli.ShutdownContext(logger)
	defer cancel()

	a.session.Bootstrap(ctx)
	if a.session.IsAuthenticated() {
		fmt.Printf("Sessão restaurada: %s\n", a.session.User().Email)
	}

	a.repl(ctx)
}

func (a *app) repl(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println(`outlai. Digite "help" para ver os comandos.`)
	for {
		fmt.Print("> ")
		if !scanner.Scan() || ctx.Err() != nil {
			fmt.Println()
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return
		}
		if err := a.dispatch(ctx, fields[0], fields[1:]); err != nil {
			fmt.Println("erro:", userMessage(err))
		}
	}
}

func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "help":
		printHelp()
		return nil
	case "login":
		return a.login(ctx, args)
	case "register":
		return a.register(ctx, args)
	case "logout":
		a.session.Logout(ctx)
		fmt.Println("sessão encerrada")
		return nil
	case "me":
		return a.me()
	case "resend":
		return oneEmailArg(args, func(email string) error {
			return a.auth.ResendVerification(ctx, email)
		})
	case "reset-request":
		return oneEmailArg(args, func(email string) error {
			return a.auth.RequestPasswordReset(ctx, email)
		})
	case "reset":
		if len(args) != 3 {
			return fmt.Errorf("uso: reset <userId> <token> <novaSenha>")
		}
		if state.IsTokenExpired(args[1]) {
			fmt.Println("aviso: o token parece expirado; o backend dará a palavra final")
		}
		return a.auth.ResetPassword(ctx, args[0], args[1], args[2])
	case "list":
		return a.list(ctx, args)
	case "add":
		return a.add(ctx, args)
	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("uso: delete <id>")
		}
		if err := a.collection.Delete(ctx, args[0]); err != nil {
			return err
		}
		a.dashboard.Invalidate()
		a.printCollection()
		return nil
	case "extract":
		return a.extract(ctx, args)
	case "drafts":
		a.printDrafts()
		return nil
	case "unstage":
		if len(args) != 1 {
			return fmt.Errorf("uso: unstage <tempId>")
		}
		if !a.staging.Remove(args[0]) {
			return fmt.Errorf("rascunho %s não encontrado", args[0])
		}
		return nil
	case "discard":
		a.staging.Clear()
		return nil
	case "save":
		if err := a.staging.SaveAll(ctx); err != nil {
			return err
		}
		a.dashboard.Invalidate()
		return a.collection.Load(ctx, 1, a.snapshotLimit(), a.snapshotCategory())
	case "dashboard":
		return a.showDashboard(ctx, args)
	default:
		return fmt.Errorf("comando desconhecido: %s", command)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("uso: login <email> <senha>")
	}
	if err := a.session.Login(ctx, services.LoginCredentials{Email: args[0], Password: args[1]}); err != nil {
		return err
	}
	fmt.Printf("bem-vindo, %s\n", a.session.User().Name)
	return a.collection.Init(ctx)
}

func (a *app) register(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("uso: register <nome> <email> <senha>")
	}
	if err := a.auth.Register(ctx, services.RegisterCredentials{
		Name: args[0], Email: args[1], Password: args[2],
	}); err != nil {
		return err
	}
	fmt.Println("conta criada; verifique seu email e faça login")
	return nil
}

func (a *app) me() error {
	user := a.session.User()
	if user == nil {
		return fmt.Errorf("não autenticado")
	}
	fmt.Printf("%s <%s> (id %s)\n", user.Name, user.Email, user.ID)
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	snap := a.collection.Snapshot()
	page, limit, category := snap.Filters.Page, snap.Filters.Limit, snap.Filters.Category
	var err error
	if len(args) > 0 {
		if page, err = strconv.Atoi(args[0]); err != nil {
			return fmt.Errorf("página inválida: %s", args[0])
		}
	}
	if len(args) > 1 {
		if limit, err = strconv.Atoi(args[1]); err != nil {
			return fmt.Errorf("limite inválido: %s", args[1])
		}
	}
	if len(args) > 2 {
		category = args[2]
	}
	if err := a.collection.Load(ctx, page, limit, category); err != nil {
		return err
	}
	a.printCollection()
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("uso: add <data aaaa-mm-dd> <valor> <categoria> <descrição...>")
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(args[1], ",", "."), 64)
	if err != nil {
		return fmt.Errorf("valor inválido: %s", args[1])
	}
	payload := core.CreateExpense{
		Description: strings.Join(args[3:], " "),
		Amount:      amount,
		Category:    args[2],
		Date:        args[0],
	}
	if err := payload.Validate(); err != nil {
		return err
	}
	if err := a.collection.Add(ctx, payload); err != nil {
		return err
	}
	a.dashboard.Invalidate()
	a.printCollection()
	return nil
}

func (a *app) extract(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("uso: extract <arquivo>")
	}
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("ler arquivo: %w", err)
	}
	drafts, err := a.extractor.ProcessReceipt(ctx, args[0], content)
	if err != nil {
		return err
	}
	a.staging.Add(drafts...)
	fmt.Printf("%d despesa(s) extraída(s) e adicionada(s) aos rascunhos\n", len(drafts))
	a.printDrafts()
	return nil
}

var trendRanges = map[string]int{"2m": 2, "6m": 6, "1y": 12}

func (a *app) showDashboard(ctx context.Context, args []string) error {
	trendMonths := 0
	if len(args) > 0 {
		months, ok := trendRanges[args[0]]
		if !ok {
			return fmt.Errorf("intervalo inválido: %s (use 2m, 6m ou 1y)", args[0])
		}
		trendMonths = months
	}

	stats, err := a.dashboard.Load(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Total este mês: R$ %.2f (mês passado: R$ %.2f, %+.1f%%)\n",
		stats.CurrentTotal, stats.LastTotal, stats.PercentageChange)

	if len(stats.ByCategory) > 0 {
		fmt.Println("Por categoria:")
		for _, c := range stats.ByCategory {
			fmt.Printf("  %-12s R$ %.2f\n", c.Name, c.Total)
		}
	}

	if len(stats.Recent) > 0 {
		fmt.Println("Transações recentes:")
		for _, e := range stats.Recent {
			fmt.Printf("  %s  %-10s R$ %8.2f  %s\n",
				e.Date.Format("2006-01-02"), e.Category, e.Amount, e.Description)
		}
	}

	fmt.Println("Tendência:")
	for _, p := range dashboard.TrendTail(stats.Trend, trendMonths) {
		fmt.Printf("  %s  R$ %.2f\n", p.Key, p.Total)
	}
	return nil
}

func (a *app) printCollection() {
	snap := a.collection.Snapshot()
	for _, e := range snap.Expenses {
		fmt.Printf("  %-6s %s  %-10s R$ %8.2f  %s\n",
			e.ID, e.Date.Format("2006-01-02"), e.Category, e.Amount, e.Description)
	}
	fmt.Printf("página %d/%d (%d no total, filtro: %s)\n",
		snap.Pagination.Page, snap.Pagination.TotalPages, snap.Pagination.Total, snap.Filters.Category)
}

func (a *app) printDrafts() {
	drafts := a.staging.Drafts()
	if len(drafts) == 0 {
		fmt.Println("nenhum rascunho")
		return
	}
	for _, d := range drafts {
		fmt.Printf("  %s  %s  %-10s R$ %8.2f  %s\n",
			d.TempID, d.Date, d.Category, d.Amount, d.Description)
	}
}

func (a *app) snapshotLimit() int       { return a.collection.Snapshot().Filters.Limit }
func (a *app) snapshotCategory() string { return a.collection.Snapshot().Filters.Category }

func oneEmailArg(args []string, fn func(string) error) error {
	if len(args) != 1 {
		return fmt.Errorf("uso: <comando> <email>")
	}
	return fn(args[0])
}

func userMessage(err error) string {
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Message()
	}
	return err.Error()
}

func printHelp() {
	fmt.Print(`comandos:
  login <email> <senha>             autentica e carrega a primeira página
  register <nome> <email> <senha>   cria uma conta
  logout                            encerra a sessão
  me                                mostra o usuário atual
  resend <email>                    reenvia o email de verificação
  reset-request <email>             inicia a redefinição de senha
  reset <userId> <token> <senha>    conclui a redefinição de senha
  list [página] [limite] [categoria]  lista despesas ("all" = sem filtro)
  add <data> <valor> <cat> <desc>   cria uma despesa
  delete <id>                       remove uma despesa
  extract <arquivo>                 extrai despesas de uma foto de nota
  drafts | unstage <id> | discard   gerencia os rascunhos
  save                              salva todos os rascunhos de uma vez
  dashboard [2m|6m|1y]              mostra o resumo de gastos
  quit                              sai
`)
}

package actions

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"xdares/jupiter"
	"xdares/leaderboard"
	"xdares/solprogram"
	"xdares/store"
)

const newDareSubject = "new dare received for x dares on blinks"

// Chain is the part of chainsol.SolChain the actions need.
type Chain interface {
	AccountExists(ctx context.Context, account solana.PublicKey) (bool, error)
	CreateTransaction(ctx context.Context, instructions []solana.Instruction, payer solana.PublicKey) (string, error)
	HealthCheck(ctx context.Context) error
}

// Swapper quotes and builds the WSOL -> SEND swap.
type Swapper interface {
	Quote(ctx context.Context, req jupiter.QuoteRequest) (*jupiter.Quote, error)
	SwapInstructions(ctx context.Context, quote *jupiter.Quote, user solana.PublicKey) (*jupiter.SwapInstructions, error)
}

// Notifier delivers the new-dare email.
type Notifier interface {
	Send(ctx context.Context, subject, text string) (bool, error)
}

// Analytics records action renders and executions and supplies the action
// identity instruction appended to generated transactions.
type Analytics interface {
	TrackRender(ctx context.Context, actionURL string, payload interface{}) error
	TrackAction(ctx context.Context, account solana.PublicKey, actionURL string) error
	IdentityInstruction(ctx context.Context, account solana.PublicKey, actionURL string) (solana.Instruction, error)
}

type Settings struct {
	ActionURL       string
	CreateIconURL   string
	NotFoundIconURL string
	Treasury        solana.PublicKey
	SendMint        solana.PublicKey
	SlippageBps     int
	Network         string
}

type Service struct {
	settings  Settings
	chain     Chain
	swapper   Swapper
	store     store.Store
	icons     leaderboard.IconSource
	notifier  Notifier
	analytics Analytics
	logger    *zap.Logger
}

func NewService(
	settings Settings,
	chain Chain,
	swapper Swapper,
	st store.Store,
	icons leaderboard.IconSource,
	notifier Notifier,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		settings: settings,
		chain:    chain,
		swapper:  swapper,
		store:    st,
		icons:    icons,
		notifier: notifier,
		logger:   logger,
	}
}

// WithAnalytics enables Blinksights tracking. Without it the actions run
// untracked.
func (s *Service) WithAnalytics(a Analytics) *Service {
	s.analytics = a
	return s
}

// DareRequest - Validated input of the create action
type DareRequest struct {
	Account     solana.PublicKey
	Title       string
	Description string
	BetLamports uint64
	// RequestURL is the action URL reported to analytics.
	RequestURL string
}

// CreateDare swaps the bet into SEND, sends it to the treasury and records
// the dare. It returns the stored dare and the unsigned transaction.
func (s *Service) CreateDare(ctx context.Context, req DareRequest) (*store.Dare, string, error) {
	instructions, whole, err := s.createInstructions(ctx, req.Account, req.BetLamports)
	if err != nil {
		return nil, "", err
	}
	instructions = s.withIdentity(ctx, instructions, req.Account, req.RequestURL)

	tx, err := s.chain.CreateTransaction(ctx, instructions, req.Account)
	if err != nil {
		return nil, "", err
	}

	dare := &store.Dare{
		Address:     req.Account.String(),
		Title:       req.Title,
		Description: req.Description,
		BetAmount:   whole,
		StakeAmount: solprogram.StakeForBet(req.BetLamports),
	}
	if err := s.store.CreateDare(ctx, dare); err != nil {
		return nil, "", fmt.Errorf("failed to save dare: %w", err)
	}
	daresCreated.Inc()

	s.notifyDare(ctx, dare)
	return dare, tx, nil
}

func (s *Service) createInstructions(
	ctx context.Context,
	account solana.PublicKey,
	lamports uint64,
) ([]solana.Instruction, uint64, error) {
	wsolATA, err := solprogram.GetAssociatedTokenAddress(account, solprogram.NativeMint)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to derive WSOL account: %w", err)
	}
	sendATA, err := solprogram.GetAssociatedTokenAddress(account, s.settings.SendMint)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to derive SEND account: %w", err)
	}
	treasuryATA, err := solprogram.GetAssociatedTokenAddress(s.settings.Treasury, s.settings.SendMint)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to derive treasury SEND account: %w", err)
	}

	var wsolExists, sendExists bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		wsolExists, err = s.chain.AccountExists(gctx, wsolATA)
		return err
	})
	g.Go(func() error {
		var err error
		sendExists, err = s.chain.AccountExists(gctx, sendATA)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	s.logger.Debug("token accounts",
		zap.Stringer("wsol", wsolATA),
		zap.Bool("wsol_exists", wsolExists),
		zap.Stringer("send", sendATA),
		zap.Bool("send_exists", sendExists),
	)

	quote, err := s.swapper.Quote(ctx, jupiter.QuoteRequest{
		InputMint:   solprogram.NativeMint,
		OutputMint:  s.settings.SendMint,
		Amount:      lamports,
		SlippageBps: s.settings.SlippageBps,
	})
	if err != nil {
		return nil, 0, err
	}
	swap, err := s.swapper.SwapInstructions(ctx, quote, account)
	if err != nil {
		return nil, 0, err
	}
	swapIx, err := swap.SwapInstruction.ToSolana()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode swap instruction: %w", err)
	}

	instructions := []solana.Instruction{
		solprogram.BuildComputeUnitLimitInstruction(solprogram.CreateComputeUnitLimit),
		solprogram.BuildComputeUnitPriceInstruction(solprogram.CreateComputeUnitPrice),
		solprogram.BuildMemoInstruction(solprogram.CreateMemo),
	}
	if !wsolExists {
		instructions = append(instructions, solprogram.BuildCreateATAInstruction(account, account, solprogram.NativeMint))
	}
	if !sendExists {
		instructions = append(instructions, solprogram.BuildCreateATAInstruction(account, account, s.settings.SendMint))
	}
	instructions = append(instructions, solprogram.BuildWrapSOLInstructions(account, wsolATA, lamports)...)
	instructions = append(instructions, swapIx)
	if !wsolExists {
		instructions = append(instructions, solprogram.BuildCloseAccountInstruction(wsolATA, account))
	}

	whole, rounded := solprogram.WholeTokens(quote.OtherAmountThreshold, solprogram.SendDecimals)
	instructions = append(instructions, solprogram.BuildTokenTransferInstruction(rounded, sendATA, treasuryATA, account))

	return instructions, whole, nil
}

func (s *Service) notifyDare(ctx context.Context, dare *store.Dare) {
	if s.notifier == nil {
		return
	}
	body, err := json.Marshal(dare)
	if err != nil {
		s.logger.Error("failed to encode dare for email", zap.Error(err))
		return
	}
	ok, err := s.notifier.Send(ctx, newDareSubject, string(body))
	if err != nil {
		s.logger.Error("failed to send dare email",
			zap.Int64("dare", dare.DareNumber),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("dare email sent",
		zap.Int64("dare", dare.DareNumber),
		zap.Bool("success", ok),
	)
}

// Stake records the submission and returns the stake transaction for it.
func (s *Service) Stake(ctx context.Context, dare *store.Dare, account solana.PublicKey, tweet, requestURL string) (string, error) {
	sub := &store.Submission{
		DareNumber: dare.DareNumber,
		Address:    account.String(),
		Link:       tweet,
	}
	if err := s.store.CreateSubmission(ctx, sub); err != nil {
		return "", fmt.Errorf("failed to save submission: %w", err)
	}
	submissionsCreated.Inc()
	s.trackAction(ctx, account, requestURL)

	instructions := []solana.Instruction{
		solprogram.BuildComputeUnitPriceInstruction(solprogram.StakeComputeUnitPrice),
		solprogram.BuildSOLTransferInstruction(solprogram.SOLToLamports(dare.StakeAmount), account, s.settings.Treasury),
		solprogram.BuildMemoInstruction(solprogram.StakeMemo),
	}
	instructions = s.withIdentity(ctx, instructions, account, requestURL)
	return s.chain.CreateTransaction(ctx, instructions, account)
}

func (s *Service) trackRender(ctx context.Context, actionURL string, payload interface{}) {
	if s.analytics == nil {
		return
	}
	if err := s.analytics.TrackRender(ctx, actionURL, payload); err != nil {
		s.logger.Warn("failed to track action render", zap.String("url", actionURL), zap.Error(err))
	}
}

func (s *Service) trackAction(ctx context.Context, account solana.PublicKey, actionURL string) {
	if s.analytics == nil {
		return
	}
	if err := s.analytics.TrackAction(ctx, account, actionURL); err != nil {
		s.logger.Warn("failed to track action",
			zap.String("url", actionURL),
			zap.String("account", account.String()),
			zap.Error(err),
		)
	}
}

// withIdentity appends the action identity instruction as the last
// instruction. The transaction is built without it when it is unavailable.
func (s *Service) withIdentity(
	ctx context.Context,
	instructions []solana.Instruction,
	account solana.PublicKey,
	actionURL string,
) []solana.Instruction {
	if s.analytics == nil {
		return instructions
	}
	ix, err := s.analytics.IdentityInstruction(ctx, account, actionURL)
	if err != nil || ix == nil {
		s.logger.Warn("proceeding without action identity instruction",
			zap.String("url", actionURL),
			zap.Error(err),
		)
		return instructions
	}
	return append(instructions, ix)
}

// DareIcon returns the leaderboard image of the dare, or the create icon when
// the leaderboard cannot be reached.
func (s *Service) DareIcon(ctx context.Context, dareNumber int64) string {
	if s.icons == nil {
		return s.settings.CreateIconURL
	}
	icon, err := s.icons.Icon(ctx, dareNumber)
	if err != nil || icon == "" {
		s.logger.Warn("leaderboard icon unavailable",
			zap.Int64("dare", dareNumber),
			zap.Error(err),
		)
		return s.settings.CreateIconURL
	}
	return icon
}

package actions

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"xdares/solprogram"
	"xdares/store"
)

const (
	createTitle       = "X Dares on Blinks"
	createLabel       = "Generate dare blink"
	createDescription = "🚀Ignite social challenges:\n- Dare friends to tweet bold content\n- Wager on tweet hype and virality\n\nWill it go viral? Dare, tweet, win big! 🐦🔥"

	msgInvalidAccount = "Invalid account provided"
	msgMissingParams  = "Missing required parameters"
	msgInvalidBet     = "Invalid bet amount"
	msgTweetRequired  = "Tweet link is required"
	msgDareNotFound   = "Dare not found"

	msgCreateFailed = "An unknown error occured"
	msgStakeFailed  = "An unknown error occurred"
)

// bindAccount reads the wallet key from the POST body.
func bindAccount(c *gin.Context) (solana.PublicKey, bool) {
	var req ActionPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return solana.PublicKey{}, false
	}
	account, err := solana.PublicKeyFromBase58(strings.TrimSpace(req.Account))
	if err != nil {
		return solana.PublicKey{}, false
	}
	return account, true
}

// requestURL rebuilds the absolute URL the wallet called.
func requestURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host + c.Request.URL.RequestURI()
}

// respondAction renders the action metadata and reports the render.
func (s *Service) respondAction(c *gin.Context, resp ActionGetResponse) {
	s.trackRender(c.Request.Context(), requestURL(c), resp)
	c.JSON(http.StatusOK, resp)
}

// GetCreate - GET/OPTIONS /api/actions/create
func (s *Service) GetCreate(c *gin.Context) {
	s.respondAction(c, ActionGetResponse{
		Type:        "action",
		Icon:        s.settings.CreateIconURL,
		Title:       createTitle,
		Description: createDescription,
		Label:       createLabel,
		Links: &ActionLinks{Actions: []LinkedAction{{
			Href: s.settings.ActionURL + "/create?title={title}&description={description}" +
				"&replies={replies}&engagement={engagement}&betAmount={betAmount}",
			Label: createLabel,
			Parameters: []ActionParameter{
				{Name: "title", Label: "dare title", Required: true},
				{Name: "description", Label: "dare description", Required: true},
				{Name: "betAmount", Label: "bet amount (in sol)", Required: true},
			},
		}}},
	})
}

// PostCreate - POST /api/actions/create
func (s *Service) PostCreate(c *gin.Context) {
	account, ok := bindAccount(c)
	if !ok {
		c.String(http.StatusBadRequest, msgInvalidAccount)
		return
	}

	title := c.Query("title")
	description := c.Query("description")
	betAmount := c.Query("betAmount")
	if title == "" || description == "" || betAmount == "" {
		c.String(http.StatusBadRequest, msgMissingParams)
		return
	}
	lamports, err := solprogram.ParseSOLToLamports(betAmount)
	if err != nil {
		c.String(http.StatusBadRequest, msgInvalidBet)
		return
	}

	actionURL := requestURL(c)
	s.trackAction(c.Request.Context(), account, actionURL)

	clamped := solprogram.ClampBetLamports(lamports)
	s.logger.Debug("create dare request",
		zap.String("account", account.String()),
		zap.String("title", title),
		zap.Uint64("requested_lamports", lamports),
		zap.Uint64("bet_lamports", clamped),
	)

	dare, tx, err := s.CreateDare(c.Request.Context(), DareRequest{
		Account:     account,
		Title:       title,
		Description: description,
		BetLamports: clamped,
		RequestURL:  actionURL,
	})
	if err != nil {
		s.logger.Error("create dare failed",
			zap.String("account", account.String()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, msgCreateFailed)
		return
	}

	c.JSON(http.StatusOK, ActionPostResponse{
		Type:        "transaction",
		Transaction: tx,
		Message: fmt.Sprintf("Copy the blink and post it on X ➡️ \nhttps://dial.to/?action=solana-action:%s/dare/%d",
			s.settings.ActionURL, dare.DareNumber),
	})
}

func parseDareNumber(c *gin.Context) (int64, bool) {
	n, err := strconv.ParseInt(c.Param("number"), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func stakeLabel(stake float64) string {
	if stake > 0 {
		return "Stake " + strconv.FormatFloat(stake, 'f', -1, 64) + " SOL"
	}
	return "Send"
}

// GetDare - GET/OPTIONS /api/actions/dare/:number
func (s *Service) GetDare(c *gin.Context) {
	ctx := c.Request.Context()
	var dare *store.Dare
	if n, ok := parseDareNumber(c); ok {
		d, err := s.store.DareByNumber(ctx, n)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			s.logger.Error("failed to load dare", zap.Int64("dare", n), zap.Error(err))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgStakeFailed})
			return
		}
		dare = d
	}
	if dare == nil {
		s.respondAction(c, ActionGetResponse{
			Type:        "action",
			Icon:        s.settings.NotFoundIconURL,
			Title:       "This dare hasn't been created yet!",
			Description: "",
			Label:       msgDareNotFound,
			Disabled:    true,
		})
		return
	}

	label := stakeLabel(dare.StakeAmount)
	s.respondAction(c, ActionGetResponse{
		Type:        "action",
		Icon:        s.DareIcon(ctx, dare.DareNumber),
		Title:       fmt.Sprintf("%s | Win %d SEND", dare.Title, dare.BetAmount),
		Description: "\n" + dare.Description + "\n\n-The tweet with the Maximum Impression wins🔥",
		Label:       label,
		Links: &ActionLinks{Actions: []LinkedAction{{
			Href:  fmt.Sprintf("%s/dare/%d?tweet={tweet}", s.settings.ActionURL, dare.DareNumber),
			Label: label,
			Parameters: []ActionParameter{
				{Name: "tweet", Label: "Submit Tweet Link 🐦", Required: true},
			},
		}}},
	})
}

// loadDare writes the 404/500 response itself when it returns nil.
func (s *Service) loadDare(c *gin.Context, failure string) *store.Dare {
	n, ok := parseDareNumber(c)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: msgDareNotFound})
		return nil
	}
	dare, err := s.store.DareByNumber(c.Request.Context(), n)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: msgDareNotFound})
		return nil
	}
	if err != nil {
		s.logger.Error("failed to load dare", zap.Int64("dare", n), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: failure})
		return nil
	}
	return dare
}

// PostDare - POST /api/actions/dare/:number
func (s *Service) PostDare(c *gin.Context) {
	dare := s.loadDare(c, msgStakeFailed)
	if dare == nil {
		return
	}

	account, ok := bindAccount(c)
	if !ok {
		c.String(http.StatusBadRequest, msgInvalidAccount)
		return
	}
	tweet := strings.TrimSpace(c.Query("tweet"))
	if tweet == "" {
		c.String(http.StatusBadRequest, msgTweetRequired)
		return
	}

	tx, err := s.Stake(c.Request.Context(), dare, account, tweet, requestURL(c))
	if err != nil {
		s.logger.Error("stake failed",
			zap.Int64("dare", dare.DareNumber),
			zap.String("account", account.String()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgStakeFailed})
		return
	}

	c.JSON(http.StatusOK, ActionPostResponse{
		Type:        "transaction",
		Transaction: tx,
		Message:     "The Dare is On!",
	})
}

// ListSubmissions - GET /api/dares/:number/submissions
func (s *Service) ListSubmissions(c *gin.Context) {
	dare := s.loadDare(c, "failed to load dare")
	if dare == nil {
		return
	}
	subs, err := s.store.SubmissionsForDare(c.Request.Context(), dare.DareNumber)
	if err != nil {
		s.logger.Error("failed to list submissions", zap.Int64("dare", dare.DareNumber), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list submissions"})
		return
	}
	if subs == nil {
		subs = []store.Submission{}
	}
	c.JSON(http.StatusOK, subs)
}

// GetActionsJSON - GET /actions.json
func (s *Service) GetActionsJSON(c *gin.Context) {
	c.JSON(http.StatusOK, ActionsJSON{Rules: []ActionRule{
		{PathPattern: "/api/actions/**", APIPath: "/api/actions/**"},
	}})
}

// Health - GET /health
func (s *Service) Health(c *gin.Context) {
	if err := s.chain.HealthCheck(c.Request.Context()); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		c.String(http.StatusServiceUnavailable, "UNHEALTHY")
		return
	}
	c.String(http.StatusOK, "OK")
}

package rest

import (
	"time"

	"github.com/cristianortiz/auctionportal/internal/auction/application"
	"github.com/cristianortiz/auctionportal/internal/auction/domain"
	"github.com/cristianortiz/auctionportal/internal/shared/auth"
	"github.com/cristianortiz/auctionportal/internal/shared/httpserver"
	"github.com/gofiber/fiber/v2"
)

type AuctionHandler struct {
	svc application.AuctionService
}

func NewAuctionHandler(svc application.AuctionService) *AuctionHandler {
	return &AuctionHandler{svc: svc}
}

// Register mounts the auction routes. Browsing is public; everything else needs a token.
func (h *AuctionHandler) Register(r fiber.Router, tokens *auth.TokenManager, gate *auth.Gate) {
	authn := httpserver.RequireAuth(tokens)

	r.Get("/auctions", h.list)
	r.Get("/auctions/:id", h.get)
	r.Post("/auctions", authn, httpserver.RequireCapability(gate, auth.CapCreateAuction), h.create)
	r.Patch("/auctions/:id", authn, httpserver.RequireCapability(gate, auth.CapEditAuction), h.edit)
	r.Post("/auctions/:id/bids", authn, h.submitBid)
	r.Post("/auctions/:id/close", authn, h.close)

	r.Get("/users/:id/bids", authn, h.userBids)
	r.Get("/users/:id/transactions", authn, h.userTransactions)
}

func (h *AuctionHandler) list(c *fiber.Ctx) error {
	views, err := h.svc.ListAuctions(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(views)
}

func (h *AuctionHandler) get(c *fiber.Ctx) error {
	id, err := httpserver.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	view, err := h.svc.GetAuctionView(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(view)
}

func (h *AuctionHandler) create(c *fiber.Ctx) error {
	var dto application.CreateAuctionDTO
	if err := httpserver.ParseBody(c, &dto); err != nil {
		return err
	}
	caller, _ := httpserver.Identity(c)
	a, err := h.svc.CreateAuction(c.UserContext(), caller.UserID, dto)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(auctionResponse(a))
}

func (h *AuctionHandler) edit(c *fiber.Ctx) error {
	id, err := httpserver.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	var dto application.EditAuctionDTO
	if err := httpserver.ParseBody(c, &dto); err != nil {
		return err
	}
	a, err := h.svc.EditAuction(c.UserContext(), id, dto)
	if err != nil {
		return err
	}
	return c.JSON(auctionResponse(a))
}

type bidRequest struct {
	Price float64 `json:"price"`
}

func (h *AuctionHandler) submitBid(c *fiber.Ctx) error {
	id, err := httpserver.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req bidRequest
	if err := httpserver.ParseBody(c, &req); err != nil {
		return err
	}
	caller, _ := httpserver.Identity(c)
	bid, err := h.svc.SubmitBid(c.UserContext(), application.SubmitBidDTO{
		AuctionID: id,
		BidderID:  caller.UserID,
		Price:     req.Price,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(application.BidDTO{
		ID:        bid.ID,
		AuctionID: bid.AuctionID,
		BidderID:  bid.BidderID,
		Price:     bid.Price,
		BidTime:   bid.BidTime,
	})
}

type closeResponse struct {
	Outcome     application.CloseOutcome    `json:"outcome"`
	Transaction *application.TransactionDTO `json:"transaction,omitempty"`
	WinnerID    string                      `json:"winner_id,omitempty"`
}

// close answers 409 while the auction is still running; every other outcome is a 200.
func (h *AuctionHandler) close(c *fiber.Ctx) error {
	id, err := httpserver.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	res, err := h.svc.CloseAuction(c.UserContext(), id)
	if err != nil {
		return err
	}

	body := closeResponse{Outcome: res.Outcome}
	if t := res.Transaction; t != nil {
		body.Transaction = &application.TransactionDTO{
			ID:            t.ID,
			AuctionID:     t.AuctionID,
			WinnerID:      t.WinnerID,
			BidID:         t.BidID,
			Amount:        t.Amount,
			PaymentStatus: t.PaymentStatus,
			SettledAt:     t.SettledAt,
		}
		body.WinnerID = t.WinnerID.String()
	}
	status := fiber.StatusOK
	if res.Outcome == application.OutcomeStillOpen {
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(body)
}

func (h *AuctionHandler) userBids(c *fiber.Ctx) error {
	id, err := httpserver.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	bids, err := h.svc.GetUserBids(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(bids)
}

func (h *AuctionHandler) userTransactions(c *fiber.Ctx) error {
	id, err := httpserver.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	txs, err := h.svc.GetUserTransactions(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(txs)
}

type auctionBody struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	ImageURL      *string   `json:"image_url,omitempty"`
	StartingPrice float64   `json:"starting_price"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	CreatorID     string    `json:"creator_id"`
}

func auctionResponse(a *domain.Auction) auctionBody {
	return auctionBody{
		ID:            a.ID.String(),
		Title:         a.Title,
		Description:   a.Description,
		ImageURL:      a.ImageURL,
		StartingPrice: a.StartingPrice,
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		CreatorID:     a.CreatorID.String(),
	}
}

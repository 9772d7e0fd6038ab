package server

import (
	"campusfeed/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetWallet handles GET /api/wallet
// @Summary Wallet
// @Description Auracoin balance with recent ledger entries
// @Tags wallet
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.WalletView
// @Failure 404 {object} models.ErrorResponse
// @Router /wallet [get]
func (s *Server) GetWallet(c *fiber.Ctx) error {
	view, err := s.walletService.GetWallet(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// SpendFromWallet handles POST /api/wallet/spend
// @Summary Spend Auracoins
// @Tags wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{amount=int,reason=string} true "Spend"
// @Success 200 {object} models.Wallet
// @Failure 400 {object} models.ErrorResponse
// @Router /wallet/spend [post]
func (s *Server) SpendFromWallet(c *fiber.Ctx) error {
	var req struct {
		Amount int64  `json:"amount"`
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	wallet, err := s.walletService.Spend(c.UserContext(), service.SpendInput{
		UserID: currentUserID(c),
		Amount: req.Amount,
		Reason: req.Reason,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(wallet)
}

package service

import (
	"github.com/homeplus-shop/internal/constants"
	"github.com/homeplus-shop/internal/logger"
	"github.com/homeplus-shop/internal/repository"

	"github.com/shopspring/decimal"
)

// LoyaltyService 用户积分与生命周期统计服务
type LoyaltyService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	earnRate  float64
}

// NewLoyaltyService 创建积分服务，earnRate 为订单金额到积分的换算比例
func NewLoyaltyService(orderRepo repository.OrderRepository, userRepo repository.UserRepository, earnRate float64) *LoyaltyService {
	return &LoyaltyService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		earnRate:  earnRate,
	}
}

// AccrueForOrder 订单送达后重算用户统计并按订单金额累积积分。
// 由队列任务触发，游客订单不会进入该路径。
func (s *LoyaltyService) AccrueForOrder(orderID uint, userID uint) error {
	if userID == 0 {
		return nil
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		logger.Warnw("loyalty_user_not_found", "user_id", userID, "order_id", orderID)
		return nil
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil || order.UserID != userID {
		return ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusDelivered {
		logger.Infow("loyalty_skip_not_delivered",
			"order_id", orderID,
			"status", order.Status,
		)
		return nil
	}

	count, spent, err := s.orderRepo.DeliveredStatsByUser(userID)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdateStats(userID, int(count), spent); err != nil {
		return err
	}

	points := order.TotalAmount.Decimal.Mul(decimal.NewFromFloat(s.earnRate)).IntPart()
	if points <= 0 {
		return nil
	}
	if err := s.userRepo.AddLoyaltyPoints(userID, points); err != nil {
		return err
	}
	logger.Infow("loyalty_points_accrued",
		"user_id", userID,
		"order_id", orderID,
		"points", points,
	)
	return nil
}

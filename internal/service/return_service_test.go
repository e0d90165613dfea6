package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/homeplus-shop/internal/constants"
	"github.com/homeplus-shop/internal/models"
	"github.com/homeplus-shop/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupReturnTest(t *testing.T) (*ReturnService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:return_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Product{},
		&models.ProductVariant{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.ReturnRequest{},
		&models.ReturnItem{},
		&models.Refund{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	models.DB = db

	orderRepo := repository.NewOrderRepository(db)
	returnRepo := repository.NewReturnRepository(db)
	stockService := NewStockService(repository.NewProductVariantRepository(db))
	numberGen := NewNumberGenerator(orderRepo.ExistsOrderNo, orderRepo.ExistsTrackingNo, returnRepo.ExistsReturnNo)
	statusService := NewOrderStatusService(
		orderRepo,
		repository.NewOrderStatusHistoryRepository(db),
		returnRepo,
		stockService,
		numberGen,
		nil,
		constants.StatusPolicyStrict,
	)
	svc := NewReturnService(
		returnRepo,
		orderRepo,
		repository.NewRefundRepository(db),
		stockService,
		statusService,
		numberGen,
	)
	return svc, db
}

// createDeliveredOrder 构造一笔已送达订单，含一个规格行项目
func createDeliveredOrder(t *testing.T, db *gorm.DB, userID uint, variantID uint, quantity int) (*models.Order, *models.OrderItem) {
	t.Helper()
	order := &models.Order{
		OrderNo: fmt.Sprintf("HP-20260101-010101-%d", time.Now().UnixNano()),
		UserID:  userID,
		Source:  constants.OrderSourceWeb,
		Status:  constants.OrderStatusDelivered,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	item := &models.OrderItem{
		OrderID:     order.ID,
		ProductID:   1,
		VariantID:   &variantID,
		ProductName: "不锈钢炒锅",
		UnitPrice:   models.NewMoneyFromInt(300),
		Quantity:    quantity,
		LineTotal:   models.NewMoneyFromInt(int64(300 * quantity)),
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("create order item failed: %v", err)
	}
	return order, item
}

func TestCreateReturn(t *testing.T) {
	svc, db := setupReturnTest(t)
	_, variant := createOrderableProduct(t, db, 10)
	order, item := createDeliveredOrder(t, db, 1, variant.ID, 2)

	request, err := svc.CreateReturn(CreateReturnInput{
		UserID:  1,
		OrderID: order.ID,
		Items:   []ReturnItemInput{{OrderItemID: item.ID, Quantity: 1}},
		Reason:  "锅盖破损",
	})
	if err != nil {
		t.Fatalf("create return failed: %v", err)
	}
	if !strings.HasPrefix(request.ReturnNo, "RET-") {
		t.Fatalf("expected RET prefix, got %s", request.ReturnNo)
	}
	if request.Status != constants.ReturnStatusRequested {
		t.Fatalf("expected requested status, got %s", request.Status)
	}

	var items []models.ReturnItem
	if err := db.Where("return_request_id = ?", request.ID).Find(&items).Error; err != nil {
		t.Fatalf("load return items failed: %v", err)
	}
	if len(items) != 1 || items[0].OrderItemID != item.ID || items[0].Quantity != 1 {
		t.Fatalf("unexpected return items: %+v", items)
	}
}

func TestCreateReturnOwnershipAndStatus(t *testing.T) {
	svc, db := setupReturnTest(t)
	_, variant := createOrderableProduct(t, db, 10)
	order, item := createDeliveredOrder(t, db, 1, variant.ID, 2)

	// 非订单归属人
	_, err := svc.CreateReturn(CreateReturnInput{
		UserID:  2,
		OrderID: order.ID,
		Items:   []ReturnItemInput{{OrderItemID: item.ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected not found for other user, got: %v", err)
	}

	// 未送达订单不可退
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).Update("status", constants.OrderStatusShipped).Error; err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	_, err = svc.CreateReturn(CreateReturnInput{
		UserID:  1,
		OrderID: order.ID,
		Items:   []ReturnItemInput{{OrderItemID: item.ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrReturnNotAllowed) {
		t.Fatalf("expected not allowed, got: %v", err)
	}
}

func TestCreateReturnAlreadyOpen(t *testing.T) {
	svc, db := setupReturnTest(t)
	_, variant := createOrderableProduct(t, db, 10)
	order, item := createDeliveredOrder(t, db, 1, variant.ID, 2)

	input := CreateReturnInput{
		UserID:  1,
		OrderID: order.ID,
		Items:   []ReturnItemInput{{OrderItemID: item.ID, Quantity: 1}},
	}
	if _, err := svc.CreateReturn(input); err != nil {
		t.Fatalf("first return failed: %v", err)
	}
	if _, err := svc.CreateReturn(input); !errors.Is(err, ErrReturnAlreadyOpen) {
		t.Fatalf("expected already open, got: %v", err)
	}
}

func TestCreateReturnItemValidation(t *testing.T) {
	svc, db := setupReturnTest(t)
	_, variant := createOrderableProduct(t, db, 10)
	order, item := createDeliveredOrder(t, db, 1, variant.ID, 2)

	cases := []struct {
		name  string
		items []ReturnItemInput
		want  error
	}{
		{"empty items", nil, ErrReturnItemInvalid},
		{"foreign order item", []ReturnItemInput{{OrderItemID: 9999, Quantity: 1}}, ErrReturnItemInvalid},
		{"zero quantity", []ReturnItemInput{{OrderItemID: item.ID, Quantity: 0}}, ErrReturnItemInvalid},
		{"over ordered quantity", []ReturnItemInput{{OrderItemID: item.ID, Quantity: 3}}, ErrReturnQuantityInvalid},
	}
	for _, tc := range cases {
		_, err := svc.CreateReturn(CreateReturnInput{UserID: 1, OrderID: order.ID, Items: tc.items})
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestProcessReturnApprove(t *testing.T) {
	svc, db := setupReturnTest(t)
	_, variant := createOrderableProduct(t, db, 10)
	order, item := createDeliveredOrder(t, db, 1, variant.ID, 2)

	request, err := svc.CreateReturn(CreateReturnInput{
		UserID:  1,
		OrderID: order.ID,
		Items:   []ReturnItemInput{{OrderItemID: item.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create return failed: %v", err)
	}

	processed, err := svc.ProcessReturn(ProcessReturnInput{
		ReturnID: request.ID,
		Decision: constants.ReturnDecisionApprove,
		Notes:    "验收通过",
		Actor:    Actor{Type: constants.ActorTypeAdmin, ID: 5},
	})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if processed.Status != constants.ReturnStatusApproved || processed.ProcessedAt == nil {
		t.Fatalf("unexpected request state: %+v", processed)
	}
	// 默认退款额为单价乘退货数量
	if !processed.RefundAmount.Decimal.Equal(models.NewMoneyFromInt(600).Decimal) {
		t.Fatalf("expected refund 600, got %s", processed.RefundAmount.String())
	}

	// 库存回补
	var reloaded models.ProductVariant
	if err := db.First(&reloaded, variant.ID).Error; err != nil {
		t.Fatalf("reload variant failed: %v", err)
	}
	if reloaded.Stock != 12 {
		t.Fatalf("expected stock 12, got %d", reloaded.Stock)
	}

	// 退款流水
	var refund models.Refund
	if err := db.Where("return_request_id = ?", request.ID).First(&refund).Error; err != nil {
		t.Fatalf("load refund failed: %v", err)
	}
	if refund.OrderID != order.ID || !refund.Amount.Decimal.Equal(models.NewMoneyFromInt(600).Decimal) {
		t.Fatalf("unexpected refund row: %+v", refund)
	}

	// 订单置为 returned 并追加历史
	var reloadedOrder models.Order
	if err := db.First(&reloadedOrder, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloadedOrder.Status != constants.OrderStatusReturned {
		t.Fatalf("expected returned order, got %s", reloadedOrder.Status)
	}
	var history models.OrderStatusHistory
	if err := db.Where("order_id = ? AND status = ?", order.ID, constants.OrderStatusReturned).First(&history).Error; err != nil {
		t.Fatalf("load returned history failed: %v", err)
	}
	if history.ActorType != constants.ActorTypeAdmin || history.ActorID != 5 {
		t.Fatalf("unexpected history actor: %+v", history)
	}
}

func TestProcessReturnApproveRefundOverride(t *testing.T) {
	svc, db := setupReturnTest(t)
	_, variant := createOrderableProduct(t, db, 10)
	order, item := createDeliveredOrder(t, db, 1, variant.ID, 2)

	request, err := svc.CreateReturn(CreateReturnInput{
		UserID:  1,
		OrderID: order.ID,
		Items:   []ReturnItemInput{{OrderItemID: item.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create return failed: %v", err)
	}

	override := models.NewMoneyFromInt(150)
	processed, err := svc.ProcessReturn(ProcessReturnInput{
		ReturnID:     request.ID,
		Decision:     constants.ReturnDecisionApprove,
		RefundAmount: &override,
		Actor:        Actor{Type: constants.ActorTypeAdmin, ID: 5},
	})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if !processed.RefundAmount.Decimal.Equal(models.NewMoneyFromInt(150).Decimal) {
		t.Fatalf("expected overridden refund 150, got %s", processed.RefundAmount.String())
	}
}

func TestProcessReturnReject(t *testing.T) {
	svc, db := setupReturnTest(t)
	_, variant := createOrderableProduct(t, db, 10)
	order, item := createDeliveredOrder(t, db, 1, variant.ID, 2)

	request, err := svc.CreateReturn(CreateReturnInput{
		UserID:  1,
		OrderID: order.ID,
		Items:   []ReturnItemInput{{OrderItemID: item.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create return failed: %v", err)
	}

	processed, err := svc.ProcessReturn(ProcessReturnInput{
		ReturnID: request.ID,
		Decision: constants.ReturnDecisionReject,
		Notes:    "超出退货期限",
		Actor:    Actor{Type: constants.ActorTypeAdmin, ID: 5},
	})
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if processed.Status != constants.ReturnStatusRejected || processed.Notes != "超出退货期限" {
		t.Fatalf("unexpected request state: %+v", processed)
	}

	// 驳回不回补库存、不落退款、不改订单状态
	var reloaded models.ProductVariant
	if err := db.First(&reloaded, variant.ID).Error; err != nil {
		t.Fatalf("reload variant failed: %v", err)
	}
	if reloaded.Stock != 10 {
		t.Fatalf("expected stock unchanged at 10, got %d", reloaded.Stock)
	}
	var refundCount int64
	if err := db.Model(&models.Refund{}).Count(&refundCount).Error; err != nil {
		t.Fatalf("count refunds failed: %v", err)
	}
	if refundCount != 0 {
		t.Fatalf("expected no refund rows, got %d", refundCount)
	}
	var reloadedOrder models.Order
	if err := db.First(&reloadedOrder, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloadedOrder.Status != constants.OrderStatusDelivered {
		t.Fatalf("expected order still delivered, got %s", reloadedOrder.Status)
	}
}

func TestProcessReturnAlreadyDecided(t *testing.T) {
	svc, db := setupReturnTest(t)
	_, variant := createOrderableProduct(t, db, 10)
	order, item := createDeliveredOrder(t, db, 1, variant.ID, 2)

	request, err := svc.CreateReturn(CreateReturnInput{
		UserID:  1,
		OrderID: order.ID,
		Items:   []ReturnItemInput{{OrderItemID: item.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create return failed: %v", err)
	}

	input := ProcessReturnInput{
		ReturnID: request.ID,
		Decision: constants.ReturnDecisionReject,
		Actor:    Actor{Type: constants.ActorTypeAdmin, ID: 5},
	}
	if _, err := svc.ProcessReturn(input); err != nil {
		t.Fatalf("first process failed: %v", err)
	}
	if _, err := svc.ProcessReturn(input); !errors.Is(err, ErrReturnAlreadyDecided) {
		t.Fatalf("expected already decided, got: %v", err)
	}
}

func TestProcessReturnInvalidDecision(t *testing.T) {
	svc, db := setupReturnTest(t)
	_, variant := createOrderableProduct(t, db, 10)
	order, item := createDeliveredOrder(t, db, 1, variant.ID, 2)

	request, err := svc.CreateReturn(CreateReturnInput{
		UserID:  1,
		OrderID: order.ID,
		Items:   []ReturnItemInput{{OrderItemID: item.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create return failed: %v", err)
	}

	_, err = svc.ProcessReturn(ProcessReturnInput{
		ReturnID: request.ID,
		Decision: "escalate",
		Actor:    Actor{Type: constants.ActorTypeAdmin, ID: 5},
	})
	if !errors.Is(err, ErrReturnDecisionInvalid) {
		t.Fatalf("expected invalid decision, got: %v", err)
	}

	if _, err := svc.ProcessReturn(ProcessReturnInput{ReturnID: 9999, Decision: constants.ReturnDecisionApprove}); !errors.Is(err, ErrReturnNotFound) {
		t.Fatalf("expected not found, got: %v", err)
	}
}

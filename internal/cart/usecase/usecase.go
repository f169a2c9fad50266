package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/auth"
	"github.com/fekuna/omnipos-storefront/internal/cart"
	"github.com/fekuna/omnipos-storefront/internal/metrics"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront/internal/product"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type cartUseCase struct {
	repo         cart.Repository
	catalog      cart.Catalog
	availability cart.Availability
	publisher    cart.Publisher
	logger       logger.ZapLogger
}

func NewCartUseCase(repo cart.Repository, catalog cart.Catalog, availability cart.Availability, publisher cart.Publisher, log logger.ZapLogger) cart.UseCase {
	return &cartUseCase{
		repo:         repo,
		catalog:      catalog,
		availability: availability,
		publisher:    publisher,
		logger:       log,
	}
}

func (uc *cartUseCase) AddItem(ctx context.Context, input cart.AddItemInput) (*cart.AddItemResult, error) {
	snap, err := uc.catalog.Snapshot()
	if err != nil {
		return nil, err
	}
	p, ok := snap.Product(input.SKU)
	if !ok {
		return nil, product.ErrProductNotFound
	}

	available := p.AvailableQty
	if available <= 0 {
		metrics.CartAdds.WithLabelValues("rejected").Inc()
		return nil, cart.OutOfStock()
	}
	if input.Quantity <= 0 || input.Quantity > available {
		metrics.CartAdds.WithLabelValues("rejected").Inc()
		return nil, cart.AddUpTo(available)
	}

	email := auth.GetEmail(ctx)
	if email == "" {
		metrics.CartAdds.WithLabelValues("rejected").Inc()
		return nil, cart.LoginAgain()
	}

	items, err := uc.repo.List(ctx, email)
	if err != nil {
		metrics.CartAdds.WithLabelValues("failed").Inc()
		uc.logger.Error("failed to load cart", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", cart.ErrCartLoad, err)
	}

	existing := 0
	for _, item := range items {
		if item.SKU == input.SKU {
			existing = item.Quantity
			break
		}
	}
	if existing+input.Quantity > available {
		metrics.CartAdds.WithLabelValues("rejected").Inc()
		return nil, cart.CartExceedsStock(available)
	}

	newQty := existing + input.Quantity
	saved, err := uc.repo.Upsert(ctx, &model.CartUpsert{
		UserEmail: email,
		SKU:       input.SKU,
		ItemName:  p.Name,
		Quantity:  newQty,
	})
	if err != nil {
		metrics.CartAdds.WithLabelValues("failed").Inc()
		uc.logger.Warn("cart upsert failed", zap.String("sku", input.SKU), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", cart.ErrCartUpdate, err)
	}
	if saved == nil {
		saved = &model.CartItem{UserEmail: email, SKU: input.SKU, ItemName: p.Name, Quantity: newQty}
	}
	metrics.CartAdds.WithLabelValues("ok").Inc()

	result := &cart.AddItemResult{
		Item:         saved,
		AvailableQty: available,
		Generation:   snap.Generation,
		Revision:     snap.Revision,
	}
	if uc.catalog.ApplyStockDecrement(snap.Generation, input.SKU, input.Quantity) {
		result.Optimistic = true
		if current, err := uc.catalog.Snapshot(); err == nil {
			if updated, ok := current.Product(input.SKU); ok {
				result.AvailableQty = updated.AvailableQty
			}
			result.Generation, result.Revision = current.Generation, current.Revision
		}
	}

	uc.publish(ctx, cart.EventItemAdded, email, input.SKU, newQty, input.Quantity)
	return result, nil
}

func (uc *cartUseCase) GetCart(ctx context.Context) (*cart.CartView, error) {
	email := auth.GetEmail(ctx)
	if email == "" {
		return nil, cart.LoginAgain()
	}

	items, err := uc.repo.List(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cart.ErrCartLoad, err)
	}

	view := &cart.CartView{Items: make([]cart.CartLine, 0, len(items)), Total: decimal.Zero}
	if len(items) == 0 {
		return view, nil
	}

	skus := make([]string, len(items))
	for i, item := range items {
		skus[i] = item.SKU
	}
	availability, err := uc.availability.Availability(ctx, skus)
	if err != nil {
		uc.logger.Warn("availability lookup failed", zap.Error(err))
		view.Warning = "availability_failed"
		availability = nil
	}

	snap, _ := uc.catalog.Snapshot()
	for _, item := range items {
		line := cart.CartLine{CartItem: item, UnitPrice: decimal.Zero}
		if availability != nil {
			qty := availability[item.SKU]
			line.AvailableQty = &qty
		}
		if snap != nil {
			if p, ok := snap.Product(item.SKU); ok {
				line.UnitPrice = p.Price
			}
		}
		line.LineTotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Total = view.Total.Add(line.LineTotal)
		view.Items = append(view.Items, line)
	}
	return view, nil
}

func (uc *cartUseCase) SetQuantity(ctx context.Context, sku string, quantity int) (*model.CartItem, error) {
	email := auth.GetEmail(ctx)
	if email == "" {
		return nil, cart.LoginAgain()
	}
	if quantity < 1 {
		return nil, cart.InvalidQuantity()
	}

	items, err := uc.repo.List(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cart.ErrCartLoad, err)
	}
	var current *model.CartItem
	for i := range items {
		if items[i].SKU == sku {
			current = &items[i]
			break
		}
	}
	if current == nil {
		return nil, cart.ErrLineNotFound
	}

	availability, err := uc.availability.Availability(ctx, []string{sku})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cart.ErrCartUpdate, err)
	}
	if available := availability[sku]; quantity > current.Quantity && quantity > available {
		return nil, cart.AddUpTo(available)
	}

	saved, err := uc.repo.Upsert(ctx, &model.CartUpsert{
		UserEmail: email,
		SKU:       sku,
		ItemName:  current.ItemName,
		Quantity:  quantity,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cart.ErrCartUpdate, err)
	}
	uc.publish(ctx, cart.EventItemUpdated, email, sku, quantity, quantity-current.Quantity)
	return saved, nil
}

func (uc *cartUseCase) RemoveItem(ctx context.Context, sku string) error {
	email := auth.GetEmail(ctx)
	if email == "" {
		return cart.LoginAgain()
	}
	if err := uc.repo.Delete(ctx, email, sku); err != nil {
		return err
	}
	uc.publish(ctx, cart.EventItemRemoved, email, sku, 0, 0)
	return nil
}

func (uc *cartUseCase) publish(ctx context.Context, eventType, email, sku string, quantity, delta int) {
	event := cart.Event{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		UserEmail:  email,
		SKU:        sku,
		Quantity:   quantity,
		Delta:      delta,
		OccurredAt: time.Now().UnixMilli(),
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("failed to publish cart event", zap.String("event_type", eventType), zap.Error(err))
	}
}

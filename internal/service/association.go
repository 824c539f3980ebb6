package service

import (
	"context"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/vendalytics/vendalytics/internal/api/dto"
	"github.com/vendalytics/vendalytics/internal/domain/product"
	"github.com/vendalytics/vendalytics/internal/domain/productpair"
	ierr "github.com/vendalytics/vendalytics/internal/errors"
	"github.com/vendalytics/vendalytics/internal/types"
)

// AssociationService computes product associations over purchase baskets: a
// co-occurrence graph over the full line-item corpus producing support,
// confidence, and lift per ordered product pair. Recalculation replaces the
// persisted pair table wholesale.
type AssociationService interface {
	Recalculate(ctx context.Context) (*dto.RecalculateAssociationsResponse, error)
	List(ctx context.Context, filter *types.ProductPairFilter) (*dto.ListAssociationsResponse, error)
}

type associationService struct {
	ServiceParams
}

func NewAssociationService(params ServiceParams) AssociationService {
	return &associationService{ServiceParams: params}
}

type pairKey struct {
	a, b string
}

func (s *associationService) Recalculate(ctx context.Context) (*dto.RecalculateAssociationsResponse, error) {
	// Fetch happens before any destructive write so an unreachable upstream
	// aborts the recalculation with the previous table intact.
	items, err := s.LineItemRepo.ListWithBasketContext(ctx)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load line items for association analysis").
			Mark(ierr.ErrDatabase)
	}

	// Basket construction: distinct product set per customer, falling back
	// to the invoice for anonymous sales.
	baskets := make(map[string]map[string]struct{})
	for _, item := range items {
		key := item.BasketKey()
		if baskets[key] == nil {
			baskets[key] = make(map[string]struct{})
		}
		baskets[key][item.ProductID] = struct{}{}
	}
	totalBaskets := len(baskets)

	// Pair enumeration: every ordered pair within a basket's distinct
	// product set counts once per basket, regardless of line-item count.
	pairSupport := make(map[pairKey]int)
	productBaskets := make(map[string]int)
	for _, productSet := range baskets {
		for a := range productSet {
			productBaskets[a]++
			for b := range productSet {
				if a == b {
					continue
				}
				pairSupport[pairKey{a, b}]++
			}
		}
	}

	snapshots, err := s.productSnapshots(ctx, lo.Keys(productBaskets))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	pairs := make([]*productpair.ProductPair, 0, len(pairSupport))
	for key, support := range pairSupport {
		pairs = append(pairs, s.buildPair(ctx, key, support, productBaskets, totalBaskets, snapshots, now))
	}

	// Deterministic persist order, matching the listing's default ordering
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].SupportCount != pairs[j].SupportCount {
			return pairs[i].SupportCount > pairs[j].SupportCount
		}
		if pairs[i].ProductAID != pairs[j].ProductAID {
			return pairs[i].ProductAID < pairs[j].ProductAID
		}
		return pairs[i].ProductBID < pairs[j].ProductBID
	})

	if err := s.ProductPairRepo.ReplaceAll(ctx, pairs); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to persist recalculated associations").
			Mark(ierr.ErrDatabase)
	}

	s.Logger.Infow("association recalculation complete",
		"baskets", totalBaskets,
		"pairs", len(pairs),
	)

	return &dto.RecalculateAssociationsResponse{
		Message: "product associations recalculated",
		Total:   len(pairs),
	}, nil
}

func (s *associationService) buildPair(
	ctx context.Context,
	key pairKey,
	support int,
	productBaskets map[string]int,
	totalBaskets int,
	snapshots map[string]*product.Product,
	calculatedAt time.Time,
) *productpair.ProductPair {
	basketsWithA := productBaskets[key.a]
	basketsWithB := productBaskets[key.b]

	confidence := 0.0
	if basketsWithA > 0 {
		confidence = float64(support) / float64(basketsWithA)
	}

	lift := 0.0
	if totalBaskets > 0 {
		probB := float64(basketsWithB) / float64(totalBaskets)
		if probB > 0 {
			lift = confidence / probB
		}
	}

	pair := &productpair.ProductPair{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PRODUCT_PAIR),
		ProductAID:   key.a,
		ProductBID:   key.b,
		SupportCount: support,
		BasketsWithA: basketsWithA,
		BasketsWithB: basketsWithB,
		TotalBaskets: totalBaskets,
		Confidence:   confidence,
		Lift:         lift,
		CalculatedAt: calculatedAt,
		BaseModel:    types.GetDefaultBaseModel(ctx),
	}

	if p, ok := snapshots[key.a]; ok {
		pair.ProductAName = p.Name
		pair.ProductAType = p.Type
	}
	if p, ok := snapshots[key.b]; ok {
		pair.ProductBName = p.Name
		pair.ProductBType = p.Type
	}
	return pair
}

// productSnapshots loads name/type snapshots for the products appearing in
// any basket
func (s *associationService) productSnapshots(ctx context.Context, ids []string) (map[string]*product.Product, error) {
	if len(ids) == 0 {
		return map[string]*product.Product{}, nil
	}

	products, err := s.ProductRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load product snapshots").
			Mark(ierr.ErrDatabase)
	}

	snapshots := make(map[string]*product.Product, len(products))
	for _, p := range products {
		snapshots[p.ID] = p
	}
	return snapshots, nil
}

func (s *associationService) List(ctx context.Context, filter *types.ProductPairFilter) (*dto.ListAssociationsResponse, error) {
	if filter == nil {
		filter = types.NewProductPairFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation)
	}

	pairs, err := s.ProductPairRepo.List(ctx, filter)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list associations").
			Mark(ierr.ErrDatabase)
	}

	total, err := s.ProductPairRepo.Count(ctx, filter)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to count associations").
			Mark(ierr.ErrDatabase)
	}

	return &dto.ListAssociationsResponse{
		Total:    total,
		Page:     filter.GetPage(),
		PageSize: filter.GetLimit(),
		Data: lo.Map(pairs, func(p *productpair.ProductPair, _ int) *dto.ProductPairResponse {
			return dto.ToProductPairResponse(p)
		}),
	}, nil
}

package service

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
	"github.com/vendalytics/vendalytics/internal/domain/lineitem"
	"github.com/vendalytics/vendalytics/internal/domain/product"
	"github.com/vendalytics/vendalytics/internal/testutil"
	"github.com/vendalytics/vendalytics/internal/types"
)

type AssociationServiceSuite struct {
	testutil.BaseServiceTestSuite
	service AssociationService
}

func TestAssociationService(t *testing.T) {
	suite.Run(t, new(AssociationServiceSuite))
}

func (s *AssociationServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewAssociationService(newTestParams(&s.BaseServiceTestSuite))
}

func (s *AssociationServiceSuite) seedProducts() {
	store := s.GetStores().ProductRepo.(*testutil.InMemoryProductStore)
	store.Add(&product.Product{ID: "prod-a", Name: "Espresso Machine", Type: "appliance"})
	store.Add(&product.Product{ID: "prod-b", Name: "Coffee Beans", Type: "consumable"})
	store.Add(&product.Product{ID: "prod-c", Name: "Grinder", Type: "appliance"})
}

func (s *AssociationServiceSuite) seedLineItem(productID, invoiceID string, customerID *string) {
	store := s.GetStores().LineItemRepo.(*testutil.InMemoryLineItemStore)
	store.Add(&lineitem.LineItem{
		ProductID:  productID,
		InvoiceID:  invoiceID,
		CustomerID: customerID,
	})
}

// Three baskets: customer c1 buys a+b+c, an anonymous invoice holds a+b, and
// customer c2 buys only a.
func (s *AssociationServiceSuite) seedCorpus() {
	s.seedProducts()

	c1 := "c1"
	s.seedLineItem("prod-a", "inv-1", &c1)
	s.seedLineItem("prod-b", "inv-1", &c1)
	s.seedLineItem("prod-c", "inv-1", &c1)
	// duplicate line for the same product in the same basket; counts once
	s.seedLineItem("prod-a", "inv-1", &c1)

	s.seedLineItem("prod-a", "inv-2", nil)
	s.seedLineItem("prod-b", "inv-2", nil)

	c2 := "c2"
	s.seedLineItem("prod-a", "inv-3", &c2)
}

func (s *AssociationServiceSuite) TestRecalculate() {
	s.seedCorpus()

	resp, err := s.service.Recalculate(s.GetContext())
	s.NoError(err)
	s.Require().NotNil(resp)

	// {a,b,c}, {a,b}, {a}: ordered pairs (a,b) (b,a) (a,c) (c,a) (b,c) (c,b)
	s.Equal(6, resp.Total)

	listResp, err := s.service.List(s.GetContext(), nil)
	s.NoError(err)
	s.Require().Len(listResp.Data, 6)

	// support 2 pairs come first, ties broken by product ids
	top := listResp.Data[0]
	s.Equal("prod-a", top.ProductAID)
	s.Equal("prod-b", top.ProductBID)
	s.Equal(2, top.SupportCount)
	s.Equal(3, top.BasketsWithA)
	s.Equal(2, top.BasketsWithB)
	s.Equal(3, top.TotalBaskets)
	// confidence = 2/3, lift = (2/3)/(2/3) = 1
	s.InDelta(2.0/3.0, top.Confidence, 1e-9)
	s.InDelta(1.0, top.Lift, 1e-9)

	// product snapshots are denormalized onto the pair
	s.Equal("Espresso Machine", top.ProductAName)
	s.Equal("appliance", top.ProductAType)
	s.Equal("Coffee Beans", top.ProductBName)
	s.Equal("consumable", top.ProductBType)

	second := listResp.Data[1]
	s.Equal("prod-b", second.ProductAID)
	s.Equal("prod-a", second.ProductBID)
	s.Equal(2, second.SupportCount)
	// confidence = 2/2 = 1, lift = 1/(3/3) = 1
	s.InDelta(1.0, second.Confidence, 1e-9)
	s.InDelta(1.0, second.Lift, 1e-9)
}

func (s *AssociationServiceSuite) TestRecalculateLiftAboveOne() {
	s.seedCorpus()

	_, err := s.service.Recalculate(s.GetContext())
	s.NoError(err)

	listResp, err := s.service.List(s.GetContext(), &types.ProductPairFilter{
		QueryFilter: types.NewNoLimitQueryFilter(),
		ProductID:   lo.ToPtr("prod-c"),
	})
	s.NoError(err)
	s.Require().Len(listResp.Data, 4)

	// (b,c): support 1, confidence 1/2, P(c) = 1/3, lift = 1.5
	var found bool
	for _, pair := range listResp.Data {
		if pair.ProductAID == "prod-b" && pair.ProductBID == "prod-c" {
			found = true
			s.Equal(1, pair.SupportCount)
			s.InDelta(0.5, pair.Confidence, 1e-9)
			s.InDelta(1.5, pair.Lift, 1e-9)
		}
	}
	s.True(found)
}

func (s *AssociationServiceSuite) TestRecalculateEmptyCorpus() {
	resp, err := s.service.Recalculate(s.GetContext())
	s.NoError(err)
	s.Equal(0, resp.Total)

	listResp, err := s.service.List(s.GetContext(), nil)
	s.NoError(err)
	s.Equal(0, listResp.Total)
	s.Empty(listResp.Data)
}

func (s *AssociationServiceSuite) TestRecalculateReplacesPreviousResults() {
	s.seedCorpus()

	_, err := s.service.Recalculate(s.GetContext())
	s.NoError(err)

	// shrink the corpus to a single basket with one product: no pairs remain
	s.GetStores().LineItemRepo.(*testutil.InMemoryLineItemStore).Clear()
	c9 := "c9"
	s.seedLineItem("prod-a", "inv-9", &c9)

	resp, err := s.service.Recalculate(s.GetContext())
	s.NoError(err)
	s.Equal(0, resp.Total)

	listResp, err := s.service.List(s.GetContext(), nil)
	s.NoError(err)
	s.Equal(0, listResp.Total)
}

func (s *AssociationServiceSuite) TestListFilters() {
	s.seedCorpus()

	_, err := s.service.Recalculate(s.GetContext())
	s.NoError(err)

	// by product id, either side of the pair
	byProduct, err := s.service.List(s.GetContext(), &types.ProductPairFilter{
		QueryFilter: types.NewNoLimitQueryFilter(),
		ProductID:   lo.ToPtr("prod-c"),
	})
	s.NoError(err)
	s.Equal(4, byProduct.Total)

	// by product type snapshot
	byType, err := s.service.List(s.GetContext(), &types.ProductPairFilter{
		QueryFilter: types.NewNoLimitQueryFilter(),
		ProductType: lo.ToPtr("consumable"),
	})
	s.NoError(err)
	s.Equal(4, byType.Total)
}

func (s *AssociationServiceSuite) TestListPagination() {
	s.seedCorpus()

	_, err := s.service.Recalculate(s.GetContext())
	s.NoError(err)

	page1, err := s.service.List(s.GetContext(), &types.ProductPairFilter{
		QueryFilter: &types.QueryFilter{
			Limit:  lo.ToPtr(4),
			Offset: lo.ToPtr(0),
		},
	})
	s.NoError(err)
	s.Equal(6, page1.Total)
	s.Equal(1, page1.Page)
	s.Len(page1.Data, 4)

	page2, err := s.service.List(s.GetContext(), &types.ProductPairFilter{
		QueryFilter: &types.QueryFilter{
			Limit:  lo.ToPtr(4),
			Offset: lo.ToPtr(4),
		},
	})
	s.NoError(err)
	s.Equal(2, page2.Page)
	s.Len(page2.Data, 2)
}

func (s *AssociationServiceSuite) TestListInvalidFilter() {
	_, err := s.service.List(s.GetContext(), &types.ProductPairFilter{
		QueryFilter: &types.QueryFilter{Limit: lo.ToPtr(-1)},
	})
	s.Error(err)
}

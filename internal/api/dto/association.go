package dto

import (
	"time"

	"github.com/samber/lo"
	"github.com/vendalytics/vendalytics/internal/domain/productpair"
	"github.com/vendalytics/vendalytics/internal/types"
)

// RecalculateAssociationsResponse reports the outcome of a recalculation
type RecalculateAssociationsResponse struct {
	Message string `json:"message"`
	Total   int    `json:"total"`
}

// ListAssociationsRequest carries pagination and filters for the association
// listing. Results are ordered by support descending.
type ListAssociationsRequest struct {
	Page        int        `form:"page,default=1" validate:"omitempty,min=1"`
	PageSize    int        `form:"page_size,default=50" validate:"omitempty,min=1,max=1000"`
	ProductID   *string    `form:"product_id"`
	ProductType *string    `form:"product_type"`
	StartTime   *time.Time `form:"start_time" time_format:"2006-01-02T15:04:05Z07:00"`
	EndTime     *time.Time `form:"end_time" time_format:"2006-01-02T15:04:05Z07:00"`
}

// ToFilter converts page-based pagination into the repository filter
func (r *ListAssociationsRequest) ToFilter() *types.ProductPairFilter {
	page := r.Page
	if page < 1 {
		page = 1
	}
	pageSize := r.PageSize
	if pageSize < 1 {
		pageSize = types.FilterDefaultLimit
	}

	return &types.ProductPairFilter{
		QueryFilter: &types.QueryFilter{
			Limit:  lo.ToPtr(pageSize),
			Offset: lo.ToPtr((page - 1) * pageSize),
		},
		TimeRangeFilter: &types.TimeRangeFilter{
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
		},
		ProductID:   r.ProductID,
		ProductType: r.ProductType,
	}
}

// ProductPairResponse is the wire representation of one association row
type ProductPairResponse struct {
	*productpair.ProductPair
}

// ListAssociationsResponse is the paginated association listing
type ListAssociationsResponse struct {
	Total    int                    `json:"total"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
	Data     []*ProductPairResponse `json:"data"`
}

// ToProductPairResponse wraps a domain pair for the wire
func ToProductPairResponse(p *productpair.ProductPair) *ProductPairResponse {
	return &ProductPairResponse{ProductPair: p}
}

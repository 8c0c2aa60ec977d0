package unwrangle

import "shopquery-be/pkg/productdata"

type searchResponse struct {
	Success      bool       `json:"success"`
	TotalResults int        `json:"total_results"`
	Results      []rawItem  `json:"results"`
}

type detailResponse struct {
	Success bool    `json:"success"`
	Detail  rawItem `json:"detail"`
}

type reviewsResponse struct {
	Success      bool        `json:"success"`
	TotalResults int         `json:"total_results"`
	Reviews      []rawReview `json:"reviews"`
}

type rawItem struct {
	Id           string   `json:"id"`
	Asin         string   `json:"asin"`
	Name         string   `json:"name"`
	Brand        string   `json:"brand"`
	Url          string   `json:"url"`
	Thumbnail    string   `json:"thumbnail"`
	Price        float64  `json:"price"`
	Currency     string   `json:"currency"`
	Rating       float64  `json:"rating"`
	TotalRatings int      `json:"total_ratings"`
	Description  string   `json:"description"`
	Features     []string `json:"features"`
}

type rawReview struct {
	Author string  `json:"author_name"`
	Rating float64 `json:"rating"`
	Title  string  `json:"title"`
	Body   string  `json:"review_text"`
	Date   string  `json:"date"`
}

func (r rawItem) toSnapshot() productdata.Snapshot {
	id := r.Id
	if id == "" {
		id = r.Asin
	}
	return productdata.Snapshot{
		Id:          id,
		Name:        r.Name,
		Brand:       r.Brand,
		Url:         r.Url,
		ImageUrl:    r.Thumbnail,
		Price:       r.Price,
		Currency:    r.Currency,
		Rating:      r.Rating,
		ReviewCount: r.TotalRatings,
		Description: r.Description,
		Features:    r.Features,
	}
}

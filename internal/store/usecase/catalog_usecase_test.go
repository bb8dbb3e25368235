package usecase

import (
	"context"
	"errors"
	"testing"

	"artdash/internal/shared/logger"
	"artdash/internal/store/config"
	"artdash/internal/store/domain/model"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CatalogUsecaseTestSuite struct {
	suite.Suite
	repo    *MockProductRepository
	host    *MockImageHost
	usecase *CatalogUsecase
	ctx     context.Context
}

func (s *CatalogUsecaseTestSuite) SetupTest() {
	s.repo = new(MockProductRepository)
	s.host = new(MockImageHost)
	cfg := &config.Config{TopSellingLimit: 9, TopPagesLimit: 4}
	s.usecase = NewCatalogUsecase(s.repo, s.host, cfg, logger.NewLogger())
	s.ctx = context.Background()
}

func (s *CatalogUsecaseTestSuite) validInput() ProductInput {
	return ProductInput{
		Title:       "Harbour Dusk",
		Artist:      "M. Okafor",
		Price:       450,
		MainImage:   "data:image/png;base64,AAAA",
		SmallImages: []string{"data:image/png;base64,BBBB", "https://img.example.com/detail.jpg"},
	}
}

func (s *CatalogUsecaseTestSuite) TestCreateProductUploadsImages() {
	s.host.On("Upload", s.ctx, "data:image/png;base64,AAAA").Return("https://cdn.example.com/main.png", nil)
	s.host.On("Upload", s.ctx, "data:image/png;base64,BBBB").Return("https://cdn.example.com/small.png", nil)
	s.host.On("Upload", s.ctx, "https://img.example.com/detail.jpg").Return("https://img.example.com/detail.jpg", nil)
	s.repo.On("CreateProduct", s.ctx, mock.AnythingOfType("*model.Product")).Return(nil)

	product, err := s.usecase.CreateProduct(s.ctx, s.validInput())

	s.NoError(err)
	s.Equal("https://cdn.example.com/main.png", product.MainImage)
	s.Equal([]string{"https://cdn.example.com/small.png", "https://img.example.com/detail.jpg"}, product.SmallImages)
}

func (s *CatalogUsecaseTestSuite) TestCreateProductValidation() {
	cases := []struct {
		name    string
		mutate  func(*ProductInput)
		wantErr error
	}{
		{"missing title", func(in *ProductInput) { in.Title = "" }, ErrMissingTitle},
		{"missing artist", func(in *ProductInput) { in.Artist = "" }, ErrMissingArtist},
		{"zero price", func(in *ProductInput) { in.Price = 0 }, ErrInvalidPrice},
		{"missing main image", func(in *ProductInput) { in.MainImage = "" }, ErrMainImageRequired},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			in := s.validInput()
			tc.mutate(&in)

			_, err := s.usecase.CreateProduct(s.ctx, in)

			s.ErrorIs(err, tc.wantErr)
		})
	}
	s.repo.AssertNotCalled(s.T(), "CreateProduct", mock.Anything, mock.Anything)
}

func (s *CatalogUsecaseTestSuite) TestCreateProductMainImageUploadFailure() {
	s.host.On("Upload", s.ctx, "data:image/png;base64,AAAA").Return("", errors.New("provider down"))

	_, err := s.usecase.CreateProduct(s.ctx, s.validInput())

	s.ErrorIs(err, ErrMainImageUpload)
	s.repo.AssertNotCalled(s.T(), "CreateProduct", mock.Anything, mock.Anything)
}

func (s *CatalogUsecaseTestSuite) TestCreateProductGalleryUploadFailure() {
	s.host.On("Upload", s.ctx, "data:image/png;base64,AAAA").Return("https://cdn.example.com/main.png", nil)
	s.host.On("Upload", s.ctx, "data:image/png;base64,BBBB").Return("", errors.New("provider down"))

	_, err := s.usecase.CreateProduct(s.ctx, s.validInput())

	s.ErrorIs(err, ErrGalleryImageUpload)
}

func (s *CatalogUsecaseTestSuite) TestViewProductCountsClick() {
	product := &model.Product{ID: "prod-1", Title: "Harbour Dusk", ClickCount: 8}
	s.repo.On("GetAndIncrementClick", s.ctx, "prod-1").Return(product, nil)

	got, err := s.usecase.ViewProduct(s.ctx, "prod-1")

	s.NoError(err)
	s.Equal(int64(8), got.ClickCount)
}

func (s *CatalogUsecaseTestSuite) TestViewProductNotFound() {
	s.repo.On("GetAndIncrementClick", s.ctx, "missing").Return(nil, errors.New("no documents in result"))

	_, err := s.usecase.ViewProduct(s.ctx, "missing")

	s.ErrorIs(err, ErrProductNotFound)
}

func (s *CatalogUsecaseTestSuite) TestTopSellingUsesConfiguredLimit() {
	s.repo.On("TopSelling", s.ctx, 9).Return([]*model.Product{}, nil)

	_, err := s.usecase.TopSelling(s.ctx)

	s.NoError(err)
	s.repo.AssertExpectations(s.T())
}

func (s *CatalogUsecaseTestSuite) TestUpdateProductOnlyChangedFields() {
	updated := &model.Product{ID: "prod-1", Title: "New Title"}
	s.repo.On("UpdateProduct", s.ctx, "prod-1", map[string]interface{}{
		"title": "New Title",
		"price": float64(600),
	}).Return(updated, nil)

	got, err := s.usecase.UpdateProduct(s.ctx, "prod-1", ProductInput{Title: "New Title", Price: 600})

	s.NoError(err)
	s.Equal("New Title", got.Title)
	s.host.AssertNotCalled(s.T(), "Upload", mock.Anything, mock.Anything)
}

func (s *CatalogUsecaseTestSuite) TestUpdateProductReuploadsChangedImage() {
	updated := &model.Product{ID: "prod-1"}
	s.host.On("Upload", s.ctx, "data:image/png;base64,CCCC").Return("https://cdn.example.com/new.png", nil)
	s.repo.On("UpdateProduct", s.ctx, "prod-1", map[string]interface{}{
		"mainImage": "https://cdn.example.com/new.png",
	}).Return(updated, nil)

	_, err := s.usecase.UpdateProduct(s.ctx, "prod-1", ProductInput{MainImage: "data:image/png;base64,CCCC"})

	s.NoError(err)
	s.repo.AssertExpectations(s.T())
}

func TestCatalogUsecaseTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogUsecaseTestSuite))
}

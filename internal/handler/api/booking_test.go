//go:build unit

package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"car-rental/internal/domain/booking"
	"car-rental/internal/handler/api"
	resdto "car-rental/internal/handler/dto/response"
	"car-rental/internal/usecase/commands"
	"car-rental/internal/usecase/queries"
	"car-rental/internal/usecase/readmodel"
	"car-rental/internal/usecase/shared"
	"car-rental/tests/common/builder"
	"car-rental/tests/common/httptest"
	commandsmock "car-rental/tests/mock/commands"
	queriesmock "car-rental/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
}

var testActor = shared.Actor{UserID: 100, Role: shared.RoleUser}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("actor", testActor)
		c.Next()
	}

	s.router.GET("/bookings", authMiddleware, s.handler.ListBookings)
	s.router.GET("/bookings/all", authMiddleware, s.handler.ListAllBookings)
	s.router.GET("/bookings/:id", authMiddleware, s.handler.GetBooking)
	s.router.POST("/bookings", authMiddleware, s.handler.CreateBooking)
	s.router.POST("/bookings/create-with-check", authMiddleware, s.handler.CreateBookingWithCheck)
	s.router.PUT("/bookings/:id", authMiddleware, s.handler.UpdateBooking)
	s.router.PUT("/bookings/:id/complete", authMiddleware, s.handler.CompleteBooking)
	s.router.DELETE("/bookings/:id", authMiddleware, s.handler.DeleteBooking)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) TestCreateBookingWithCheck() {
	url := "/bookings/create-with-check"
	reqBody := builder.NewBookingBuilder().BuildCreateRequestDTO()

	s.Run("success: returns 201 Created", func() {
		bookingRM := builder.NewBookingBuilder().BuildRM()
		s.mockCommands.EXPECT().CreateWithCheck(gomock.Any(), testActor, gomock.Any()).
			Return(bookingRM, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		s.Equal(http.StatusCreated, rec.Code)

		var body resdto.BookingResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal(int64(100), body.UserID)
	})

	s.Run("unavailable car: returns 403", func() {
		s.mockCommands.EXPECT().CreateWithCheck(gomock.Any(), testActor, gomock.Any()).
			Return(nil, commands.ErrCarNotAvailable).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("unknown car: returns 404", func() {
		s.mockCommands.EXPECT().CreateWithCheck(gomock.Any(), testActor, gomock.Any()).
			Return(nil, commands.ErrCarNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("unknown user: returns 404", func() {
		s.mockCommands.EXPECT().CreateWithCheck(gomock.Any(), testActor, gomock.Any()).
			Return(nil, commands.ErrUserNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("car service down: returns 502", func() {
		s.mockCommands.EXPECT().CreateWithCheck(gomock.Any(), testActor, gomock.Any()).
			Return(nil, commands.ErrCarServiceUnavailable).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		s.Equal(http.StatusBadGateway, rec.Code)
	})

	s.Run("malformed date: returns 400", func() {
		bad := reqBody
		bad.StartDate = "10-09-2026"

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, bad, "bearer-token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("missing car_id: returns 400", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"start_date": "2026-09-10", "end_date": "2026-09-17"}, "bearer-token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("unauthenticated: returns 401", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestCreateBooking() {
	reqBody := builder.NewBookingBuilder().BuildCreateRequestDTO()

	s.Run("success: returns 201 Created", func() {
		bookingRM := builder.NewBookingBuilder().BuildRM()
		s.mockCommands.EXPECT().Create(gomock.Any(), testActor, gomock.Any()).
			Return(bookingRM, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings", reqBody, "bearer-token")
		s.Equal(http.StatusCreated, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestGetBooking() {
	s.Run("success: returns the booking", func() {
		bookingRM := builder.NewBookingBuilder().BuildRM()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), testActor, int64(1)).Return(bookingRM, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/1", nil, "bearer-token")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("someone else's booking: returns 403", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), testActor, int64(2)).Return(nil, queries.ErrAccessDenied).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/2", nil, "bearer-token")
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("unknown booking: returns 404", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), testActor, int64(42)).Return(nil, queries.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/42", nil, "bearer-token")
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestListBookings() {
	s.Run("returns the caller's bookings with car snapshots", func() {
		bookingRM := builder.NewBookingBuilder().BuildRM()
		bookingRM.Car = builder.NewCarBuilder().BuildRM()
		s.mockQueries.EXPECT().ListForUser(gomock.Any(), testActor).
			Return([]*readmodel.BookingRM{bookingRM}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings", nil, "bearer-token")
		s.Equal(http.StatusOK, rec.Code)

		var body []resdto.BookingResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Require().Len(body, 1)
		s.Require().NotNil(body[0].Car)
		s.Equal("Toyota", body[0].Car.Brand)
	})
}

func (s *BookingHandlerTestSuite) TestListAllBookings() {
	s.Run("admin listing is delegated with the actor", func() {
		s.mockQueries.EXPECT().ListAll(gomock.Any(), testActor).
			Return([]*readmodel.BookingRM{builder.NewBookingBuilder().BuildRM()}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/all", nil, "bearer-token")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("non-admin: returns 403", func() {
		s.mockQueries.EXPECT().ListAll(gomock.Any(), testActor).Return(nil, queries.ErrAccessDenied).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/all", nil, "bearer-token")
		s.Equal(http.StatusForbidden, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestUpdateBooking() {
	url := "/bookings/1"
	reqBody := map[string]any{"status": "Cancelled"}

	s.Run("success: returns the updated booking", func() {
		bookingRM := builder.NewBookingBuilder().WithStatus(booking.StatusCancelled).BuildRM()
		s.mockCommands.EXPECT().Update(gomock.Any(), testActor, int64(1), gomock.Any()).
			Return(bookingRM, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, "bearer-token")
		s.Equal(http.StatusOK, rec.Code)

		var body resdto.BookingResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal("Cancelled", body.Status)
	})

	s.Run("no longer editable: returns 409", func() {
		s.mockCommands.EXPECT().Update(gomock.Any(), testActor, int64(1), gomock.Any()).
			Return(nil, commands.ErrBookingNotEditable).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, "bearer-token")
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("validation failure: returns 422", func() {
		s.mockCommands.EXPECT().Update(gomock.Any(), testActor, int64(1), gomock.Any()).
			Return(nil, commands.ErrBookingValidation).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, "bearer-token")
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("unknown status: returns 400", func() {
		s.mockCommands.EXPECT().Update(gomock.Any(), testActor, int64(1), gomock.Any()).
			Return(nil, commands.ErrInvalidBookingStatus).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, "bearer-token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("malformed date: returns 400 without reaching the usecase", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url,
			map[string]any{"start_date": "September 10"}, "bearer-token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestCompleteBooking() {
	url := "/bookings/1/complete"

	s.Run("success: returns the completed booking", func() {
		bookingRM := builder.NewBookingBuilder().WithStatus(booking.StatusCompleted).BuildRM()
		s.mockCommands.EXPECT().Complete(gomock.Any(), testActor, int64(1)).Return(bookingRM, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, nil, "bearer-token")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("car service down: returns 502", func() {
		s.mockCommands.EXPECT().Complete(gomock.Any(), testActor, int64(1)).
			Return(nil, commands.ErrCarServiceUnavailable).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, nil, "bearer-token")
		s.Equal(http.StatusBadGateway, rec.Code)
	})

	s.Run("someone else's booking: returns 403", func() {
		s.mockCommands.EXPECT().Complete(gomock.Any(), testActor, int64(1)).
			Return(nil, commands.ErrAccessDenied).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, nil, "bearer-token")
		s.Equal(http.StatusForbidden, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestDeleteBooking() {
	s.Run("success: returns 204", func() {
		s.mockCommands.EXPECT().Delete(gomock.Any(), testActor, int64(1)).Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/bookings/1", nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("no longer deletable: returns 409", func() {
		s.mockCommands.EXPECT().Delete(gomock.Any(), testActor, int64(1)).
			Return(commands.ErrBookingNotDeletable).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/bookings/1", nil, "bearer-token")
		s.Equal(http.StatusConflict, rec.Code)
	})
}

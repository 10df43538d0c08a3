package queries_test

import (
	"context"

	"loadboard/internal/core/application/usecases/queries"
	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/user"
	"loadboard/internal/core/domain/services"
	"loadboard/internal/pkg/errs"
)

func (s *QueriesTestSuite) TestListAvailableLoads_SplitsByDate() {
	ctx := context.Background()
	sender := s.insertUser("sender", user.Sender, nil)
	driver := s.insertUser("driver", user.Driver, nil)

	older := s.insertLoad(seedLoad{sender: sender, status: "pending", expectedDate: "2025-04-01"})
	match := s.insertLoad(seedLoad{sender: sender, status: "pending", expectedDate: "2025-05-01", price: ptr(21000.0)})
	newer := s.insertLoad(seedLoad{sender: sender, status: "pending", expectedDate: "2025-06-01"})
	s.insertLoad(seedLoad{sender: sender, status: "requested"})

	handler := queries.NewListAvailableLoadsQueryHandler(s.db, services.NewStateDocumentAdvisor())

	query, err := queries.NewListAvailableLoadsQuery(s.identity(driver, user.Driver), "2025-05-01")
	s.Require().NoError(err)

	result, err := handler.Handle(ctx, query)
	s.Require().NoError(err)

	s.Require().Len(result.ExactMatches, 1)
	s.Equal(kernel.ID(match), result.ExactMatches[0].ID)
	s.Equal("UTI-2", result.ExactMatches[0].Reference)
	s.InDelta(21000.0, *result.ExactMatches[0].Price, 0.001)
	s.Equal([]string{"Form 38/39", "PUC", "Permit", "e-Way Bill"}, result.ExactMatches[0].RequiredDocuments)

	s.Require().Len(result.Others, 2)
	s.Equal(kernel.ID(newer), result.Others[0].ID)
	s.Equal(kernel.ID(older), result.Others[1].ID)

	query, err = queries.NewListAvailableLoadsQuery(s.identity(driver, user.Driver), "")
	s.Require().NoError(err)
	result, err = handler.Handle(ctx, query)
	s.Require().NoError(err)
	s.Empty(result.ExactMatches)
	s.Len(result.Others, 3)
}

func (s *QueriesTestSuite) TestListAvailableLoads_SenderIsForbidden() {
	sender := s.insertUser("sender", user.Sender, nil)
	handler := queries.NewListAvailableLoadsQueryHandler(s.db, nil)

	query, err := queries.NewListAvailableLoadsQuery(s.identity(sender, user.Sender), "")
	s.Require().NoError(err)

	_, err = handler.Handle(context.Background(), query)
	s.ErrorIs(err, errs.ErrAccessDenied)
}

func (s *QueriesTestSuite) TestListAvailableLoads_ZeroQueryIsRejected() {
	handler := queries.NewListAvailableLoadsQueryHandler(s.db, nil)

	_, err := handler.Handle(context.Background(), queries.ListAvailableLoadsQuery{})
	s.ErrorIs(err, errs.ErrValueIsRequired)
}

func (s *QueriesTestSuite) TestListIncomingRequests_OnlyPendingBidsOnOwnRequestedLoads() {
	sender := s.insertUser("sender", user.Sender, nil)
	other := s.insertUser("other-sender", user.Sender, nil)
	alice := s.insertUser("alice", user.Driver, nil)
	bob := s.insertUser("bob", user.TruckOwner, nil)

	requested := s.insertLoad(seedLoad{sender: sender, status: "requested", price: ptr(900.0)})
	first := s.insertRequest(requested, alice, "pending")
	second := s.insertRequest(requested, bob, "pending")

	assigned := s.insertLoad(seedLoad{sender: sender, status: "assigned", driver: &alice})
	s.insertRequest(assigned, alice, "confirmed")
	s.insertRequest(assigned, bob, "rejected")

	foreign := s.insertLoad(seedLoad{sender: other, status: "requested"})
	s.insertRequest(foreign, alice, "pending")

	handler := queries.NewListIncomingRequestsQueryHandler(s.db, services.NewStateDocumentAdvisor())
	query, err := queries.NewListIncomingRequestsQuery(s.identity(sender, user.Sender))
	s.Require().NoError(err)

	result, err := handler.Handle(context.Background(), query)
	s.Require().NoError(err)
	s.Require().Len(result, 2)

	s.Equal(kernel.ID(first), result[0].RequestID)
	s.Equal(kernel.ID(requested), result[0].LoadID)
	s.Equal("alice", result[0].DriverName)
	s.InDelta(900.0, *result[0].Price, 0.001)
	s.NotEmpty(result[0].RequiredDocuments)

	s.Equal(kernel.ID(second), result[1].RequestID)
	s.Equal("bob", result[1].DriverName)
}

func (s *QueriesTestSuite) TestGetDriverJobs() {
	sender := s.insertUser("sender", user.Sender, nil)
	driver := s.insertUser("driver", user.Driver, nil)
	rival := s.insertUser("rival", user.Driver, nil)

	later := s.insertLoad(seedLoad{sender: sender, status: "intransit", driver: &driver, expectedDate: "2025-07-01"})
	sooner := s.insertLoad(seedLoad{sender: sender, status: "assigned", driver: &driver, expectedDate: "2025-06-01"})
	s.insertLoad(seedLoad{sender: sender, status: "delivered", driver: &driver})
	s.insertLoad(seedLoad{sender: sender, status: "assigned", driver: &rival})

	bidLoad := s.insertLoad(seedLoad{sender: sender, status: "requested"})
	bid := s.insertRequest(bidLoad, driver, "pending")
	lost := s.insertLoad(seedLoad{sender: sender, status: "assigned", driver: &rival})
	s.insertRequest(lost, driver, "rejected")

	handler := queries.NewGetDriverJobsQueryHandler(s.db, nil)
	query, err := queries.NewGetDriverJobsQuery(s.identity(driver, user.Driver))
	s.Require().NoError(err)

	result, err := handler.Handle(context.Background(), query)
	s.Require().NoError(err)

	s.Require().Len(result.ConfirmedJobs, 2)
	s.Equal(kernel.ID(sooner), result.ConfirmedJobs[0].LoadID)
	s.Equal("assigned", result.ConfirmedJobs[0].Status)
	s.Equal("sender", result.ConfirmedJobs[0].SenderName)
	s.Equal(kernel.ID(later), result.ConfirmedJobs[1].LoadID)
	s.Equal("unpaid", result.ConfirmedJobs[1].PaymentStatus)

	s.Require().Len(result.PendingRequests, 1)
	s.Equal(kernel.ID(bid), result.PendingRequests[0].RequestID)
	s.Equal(kernel.ID(bidLoad), result.PendingRequests[0].LoadID)
}

func (s *QueriesTestSuite) TestHistory() {
	sender := s.insertUser("sender", user.Sender, nil)
	driver := s.insertUser("driver", user.Driver, nil)

	delivered := s.insertLoad(seedLoad{sender: sender, status: "delivered", driver: &driver, payment: "paid"})
	canceled := s.insertLoad(seedLoad{sender: sender, status: "canceled"})
	s.insertLoad(seedLoad{sender: sender, status: "intransit", driver: &driver})
	dropped := s.insertLoad(seedLoad{sender: sender, status: "canceled", driver: &driver})

	handler := queries.NewLoadHistoryQueryHandler(s.db, services.NewStateDocumentAdvisor())

	s.Run("driver", func() {
		query, err := queries.NewGetDriverHistoryQuery(s.identity(driver, user.Driver))
		s.Require().NoError(err)

		result, err := handler.HandleDriver(context.Background(), query)
		s.Require().NoError(err)
		s.Require().Len(result, 2)
		s.Equal(kernel.ID(dropped), result[0].LoadID)
		s.Equal("canceled", result[0].Status)
		s.Equal(kernel.ID(delivered), result[1].LoadID)
		s.Equal("paid", result[1].PaymentStatus)
		s.Equal("sender", result[1].CounterpartName)
		s.Equal([]string{"Form 38/39", "PUC", "Permit", "e-Way Bill"}, result[1].RequiredDocuments)
	})

	s.Run("sender", func() {
		query, err := queries.NewGetSenderHistoryQuery(s.identity(sender, user.Sender))
		s.Require().NoError(err)

		result, err := handler.HandleSender(context.Background(), query)
		s.Require().NoError(err)
		s.Require().Len(result, 3)
		s.Equal(kernel.ID(dropped), result[0].LoadID)
		s.Equal(kernel.ID(canceled), result[1].LoadID)
		s.Equal("N/A", result[1].CounterpartName)
		s.Equal(kernel.ID(delivered), result[2].LoadID)
		s.Equal("driver", result[2].CounterpartName)
	})

	s.Run("sender may not read driver history", func() {
		query, err := queries.NewGetDriverHistoryQuery(s.identity(sender, user.Sender))
		s.Require().NoError(err)

		_, err = handler.HandleDriver(context.Background(), query)
		s.ErrorIs(err, services.ErrRoleForbidden)
	})
}

func (s *QueriesTestSuite) TestHistory_IsCappedAtFifty() {
	sender := s.insertUser("sender", user.Sender, nil)
	for range 55 {
		s.insertLoad(seedLoad{sender: sender, status: "canceled"})
	}

	query, err := queries.NewGetSenderHistoryQuery(s.identity(sender, user.Sender))
	s.Require().NoError(err)

	result, err := queries.NewLoadHistoryQueryHandler(s.db, nil).HandleSender(context.Background(), query)
	s.Require().NoError(err)
	s.Len(result, 50)
	s.Equal(kernel.ID(55), result[0].LoadID)
}

func (s *QueriesTestSuite) TestTrackShipment() {
	sender := s.insertUser("sender", user.Sender, nil)
	stranger := s.insertUser("stranger", user.Sender, nil)
	owner := s.insertUser("owner", user.TruckOwner, nil)
	driver := s.insertUser("driver", user.Driver, &owner)
	receiver := s.insertUser("receiver", user.Receiver, nil)

	pending := s.insertLoad(seedLoad{sender: sender, status: "pending"})
	moving := s.insertLoad(seedLoad{
		sender: sender, status: "intransit", driver: &driver,
		lat: ptr(28.61), lng: ptr(77.21), price: ptr(21000.0),
	})

	handler := queries.NewTrackShipmentQueryHandler(s.db,
		services.NewTrackingPolicy(services.OwnerTracksAnyAssigned), services.NewStateDocumentAdvisor())

	track := func(identity user.Identity, loadID int64) (queries.Shipment, error) {
		ref, err := kernel.NewReference(kernel.ID(loadID))
		s.Require().NoError(err)
		query, err := queries.NewTrackShipmentQuery(identity, ref)
		s.Require().NoError(err)
		return handler.Handle(context.Background(), query)
	}

	s.Run("receiver sees the full snapshot", func() {
		shipment, err := track(s.identity(receiver, user.Receiver), moving)
		s.Require().NoError(err)
		s.Equal("UTI-2", shipment.Reference)
		s.Equal("intransit", shipment.Status)
		s.Equal("driver", shipment.DriverName)
		s.Equal("sender", shipment.SenderName)
		s.InDelta(28.61, *shipment.DriverLat, 0.0001)
		s.InDelta(77.21, *shipment.DriverLng, 0.0001)
		s.Equal("unpaid", shipment.PaymentStatus)
	})

	s.Run("unassigned load shows placeholder driver", func() {
		shipment, err := track(s.identity(sender, user.Sender), pending)
		s.Require().NoError(err)
		s.Equal("Not Assigned Yet", shipment.DriverName)
		s.Nil(shipment.DriverLat)
	})

	s.Run("other sender is forbidden", func() {
		_, err := track(s.identity(stranger, user.Sender), moving)
		s.ErrorIs(err, services.ErrTrackingForbidden)
	})

	s.Run("owner needs an assigned driver", func() {
		_, err := track(s.identity(owner, user.TruckOwner), moving)
		s.Require().NoError(err)

		_, err = track(s.identity(owner, user.TruckOwner), pending)
		s.ErrorIs(err, services.ErrTrackingForbidden)
	})

	s.Run("missing load", func() {
		_, err := track(s.identity(receiver, user.Receiver), 999)
		s.ErrorIs(err, errs.ErrObjectNotFound)
	})
}

func (s *QueriesTestSuite) TestTrackShipment_ManagedDriversScope() {
	sender := s.insertUser("sender", user.Sender, nil)
	owner := s.insertUser("owner", user.TruckOwner, nil)
	otherOwner := s.insertUser("other-owner", user.TruckOwner, nil)
	driver := s.insertUser("driver", user.Driver, &owner)

	moving := s.insertLoad(seedLoad{sender: sender, status: "assigned", driver: &driver})

	handler := queries.NewTrackShipmentQueryHandler(s.db,
		services.NewTrackingPolicy(services.OwnerTracksManagedDrivers), nil)
	ref, err := kernel.NewReference(kernel.ID(moving))
	s.Require().NoError(err)

	query, err := queries.NewTrackShipmentQuery(s.identity(owner, user.TruckOwner), ref)
	s.Require().NoError(err)
	_, err = handler.Handle(context.Background(), query)
	s.Require().NoError(err)

	query, err = queries.NewTrackShipmentQuery(s.identity(otherOwner, user.TruckOwner), ref)
	s.Require().NoError(err)
	_, err = handler.Handle(context.Background(), query)
	s.ErrorIs(err, services.ErrTrackingForbidden)
}

func (s *QueriesTestSuite) TestGetOwnerOverview() {
	sender := s.insertUser("sender", user.Sender, nil)
	owner := s.insertUser("owner", user.TruckOwner, nil)
	mine := s.insertUser("mine", user.Driver, &owner)
	freelancer := s.insertUser("freelancer", user.Driver, nil)

	mineActive := s.insertLoad(seedLoad{sender: sender, status: "intransit", driver: &mine, expectedDate: "2025-05-02"})
	freeActive := s.insertLoad(seedLoad{sender: sender, status: "assigned", driver: &freelancer, expectedDate: "2025-05-01"})
	mineDone := s.insertLoad(seedLoad{sender: sender, status: "delivered", driver: &mine, payment: "paid"})
	s.insertLoad(seedLoad{sender: sender, status: "pending"})

	query, err := queries.NewGetOwnerOverviewQuery(s.identity(owner, user.TruckOwner))
	s.Require().NoError(err)

	s.Run("any assigned", func() {
		handler := queries.NewGetOwnerOverviewQueryHandler(s.db, services.OwnerTracksAnyAssigned, nil)
		result, err := handler.Handle(context.Background(), query)
		s.Require().NoError(err)

		s.Require().Len(result.ActiveLoads, 2)
		s.Equal(kernel.ID(freeActive), result.ActiveLoads[0].LoadID)
		s.Equal(kernel.ID(mineActive), result.ActiveLoads[1].LoadID)
		s.Equal("mine", result.ActiveLoads[1].DriverName)
		s.Equal("sender", result.ActiveLoads[1].SenderName)

		s.Require().Len(result.CompletedLoads, 1)
		s.Equal(kernel.ID(mineDone), result.CompletedLoads[0].LoadID)
		s.Equal("paid", result.CompletedLoads[0].PaymentStatus)
	})

	s.Run("managed drivers", func() {
		handler := queries.NewGetOwnerOverviewQueryHandler(s.db, services.OwnerTracksManagedDrivers, nil)
		result, err := handler.Handle(context.Background(), query)
		s.Require().NoError(err)

		s.Require().Len(result.ActiveLoads, 1)
		s.Equal(kernel.ID(mineActive), result.ActiveLoads[0].LoadID)
		s.Len(result.CompletedLoads, 1)
	})

	s.Run("driver is forbidden", func() {
		driverQuery, err := queries.NewGetOwnerOverviewQuery(s.identity(mine, user.Driver))
		s.Require().NoError(err)
		handler := queries.NewGetOwnerOverviewQueryHandler(s.db, "", nil)
		_, err = handler.Handle(context.Background(), driverQuery)
		s.ErrorIs(err, errs.ErrAccessDenied)
	})
}

func (s *QueriesTestSuite) TestAuthenticateUser() {
	id := s.insertUser("alice", user.Driver, nil)
	handler := queries.NewAuthenticateUserQueryHandler(s.db, plainHasher{})

	s.Run("valid credentials", func() {
		query, err := queries.NewAuthenticateUserQuery(" alice ", "alice")
		s.Require().NoError(err)

		result, err := handler.Handle(context.Background(), query)
		s.Require().NoError(err)
		s.Equal(kernel.ID(id), result.Identity.UserID())
		s.Equal(user.Driver, result.Identity.Role())
		s.Equal("alice", result.Username)
	})

	s.Run("wrong password and unknown user look the same", func() {
		query, err := queries.NewAuthenticateUserQuery("alice", "wrong")
		s.Require().NoError(err)
		_, wrongPassword := handler.Handle(context.Background(), query)

		query, err = queries.NewAuthenticateUserQuery("nobody", "nobody")
		s.Require().NoError(err)
		_, unknownUser := handler.Handle(context.Background(), query)

		s.ErrorIs(wrongPassword, queries.ErrInvalidCredentials)
		s.ErrorIs(unknownUser, queries.ErrInvalidCredentials)
		s.Equal(wrongPassword.Error(), unknownUser.Error())
	})

	s.Run("blank input", func() {
		_, err := queries.NewAuthenticateUserQuery("  ", "")
		s.ErrorIs(err, errs.ErrValueIsRequired)
	})
}

func (s *QueriesTestSuite) TestGetLoadBoardStats() {
	sender := s.insertUser("sender", user.Sender, nil)
	driver := s.insertUser("driver", user.Driver, nil)

	s.insertLoad(seedLoad{sender: sender, status: "pending"})
	requested := s.insertLoad(seedLoad{sender: sender, status: "requested"})
	s.insertRequest(requested, driver, "pending")
	s.insertLoad(seedLoad{sender: sender, status: "delivered", driver: &driver, payment: "paid"})
	s.insertLoad(seedLoad{sender: sender, status: "delivered", driver: &driver})

	stats, err := queries.NewGetLoadBoardStatsQueryHandler(s.db).Handle(context.Background())
	s.Require().NoError(err)

	s.Equal(int64(4), stats.TotalLoads)
	s.Equal(map[string]int64{"pending": 1, "requested": 1, "delivered": 2}, stats.ByStatus)
	s.Equal(map[string]int64{"unpaid": 3, "paid": 1}, stats.ByPayment)
	s.Equal(int64(1), stats.PendingRequests)
}

/*
Package conversation drives sessions through a page catalog.

A Service keeps one domain.Session per conversation. Each inbound selection is
resolved by the engine, its parameters are merged into the session context, the
analytics event is emitted and the next page is rendered. Transitions that hand
off to a flow or call a function run the handler registered in a
registry.Registry; without one the action is returned as pending so the channel
can take over.

	svc := conversation.New(engine, session.NewManager(memory.NewStore()),
		conversation.WithRegistry(reg),
		conversation.WithAnalytics(analytics.NewLogSink(logger)),
	)
	reply, err := svc.Handle(ctx, "5511999990000", conversation.Event{SelectionID: "SCHEDULE"})
*/
package conversation

// Package rowfilter filters in-memory Arrow tables with a small text filter
// language and serves the results over Arrow Flight.
//
// Filter text is a flat expression over column comparisons:
//
//	Price > 5000
//	InstrumentID:IC260
//	InstrumentID = IC2602 AND Price > 5000
//	NOT Status = Closed
//	IC26
//
// The last form has no operator and searches every textual column for the
// substring. See the filter package for the full grammar and typing rules.
//
// # Quick Start
//
// Filter a table in-process:
//
//	out, err := rowfilter.Apply("Price > 5000", tbl)
//	if err != nil {
//	    return err
//	}
//	defer out.Release()
//
// Serve tables loaded from disk:
//
//	cat, err := rowfilter.NewCatalogBuilder().
//	    File("quotes", "data/quotes.csv", nil).
//	    File("trades", "data/trades.parquet", nil).
//	    Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cat.Release()
//
//	config := rowfilter.ServerConfig{Catalog: cat}
//	grpcServer := grpc.NewServer(rowfilter.ServerOptions(config)...)
//	if err := rowfilter.NewServer(grpcServer, config); err != nil {
//	    log.Fatal(err)
//	}
//	lis, _ := net.Listen("tcp", ":50051")
//	grpcServer.Serve(lis)
//
// Clients call GetFlightInfo with a PATH descriptor (table name first, then
// optional projected columns) and the filter text in Cmd, then DoGet with the
// returned ticket.
//
// # Server Lifecycle
//
// The package registers Flight service handlers on a user-provided grpc.Server
// but does NOT manage server lifecycle (start/stop/listen). TLS, extra
// interceptors and graceful shutdown stay under the caller's control.
//
// # Memory Management
//
// Tables wrap reference-counted Arrow records. Callers MUST call Release() on
// every table returned by Apply, the loader and the catalog.
package rowfilter

// Package mock provides a test double implementation of connector.Connector.
//
// The mock allows tests to run without network access and enables controlled,
// deterministic behavior: canned items, scripted failures, artificial latency,
// and call counting. Behavior is injected via function fields.
//
// # Usage in Tests
//
//	conn := mock.NewConnector("web-mock", core.SourceTypeWeb)
//	conn.FetchFunc = func(ctx context.Context, query map[string]string) ([]*core.ContentItem, error) {
//	    return nil, connector.NewNetworkError("down", nil)
//	}
//
//	// Check call counts after exercising the orchestrator
//	count := conn.CallCount()
//
// Unlike most test doubles, the mock is safe for concurrent use: the executor
// fans out over connectors from multiple worker goroutines.
package mock

// Package onesky is a client for the OneSky Platform API (version 1).
//
// A Client exposes one wrapper per resource group: project groups, projects,
// project types, locales, files, import tasks and translations. Each wrapper
// builds the endpoint and its parameters and hands them to a shared request
// pipeline, which signs the call, checks the response status and converts the
// response data into the typed values defined here.
//
// Every call is a single blocking round trip bound to its context. Nothing is
// cached or retried; errors are *core.Error values classified by core.ErrorKind.
//
// Basic usage:
//
//	config := core.DefaultConfig().WithCredentials(apiKey, apiSecret)
//	client, err := onesky.New(config, onesky.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	page, err := client.ProjectGroups().List(ctx, core.FirstPage(50))
package onesky

// Package mock provides test doubles for the ai interfaces.
//
//	completer := mock.NewMockCompleter(`{"categories":[]}`)
//	completer.WithCompleteFunc(func(ctx context.Context, system, user string) (string, error) {
//	    return "", errors.New("upstream down")
//	})
//	count := completer.CallCount()
package mock

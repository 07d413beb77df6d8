package cmd

import (
	"flag"
	"strings"

	"github.com/etnz/ledger"
	"github.com/etnz/ledger/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Complete answers shell completion requests for the program called name and
// exits. It returns immediately when the shell is not asking for completion.
func Complete(name string) {
	completion(flag.CommandLine).Complete(name)
}

// predictor is implemented by commands offering completion of some flag values or arguments.
type predictor interface {
	predictFlags() map[string]complete.Predictor
	predictArgs() complete.Predictor
}

func completion(global *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(global, nil),
	}
	var names []string
	for _, g := range groups() {
		for _, c := range g.commands {
			root.Sub[c.Name()] = commandCompletion(c)
			names = append(names, c.Name())
		}
	}
	root.Sub["help"] = &complete.Command{Args: predict.Set(names)}
	return root
}

func commandCompletion(c subcommands.Command) *complete.Command {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(fs)
	cc := &complete.Command{}
	var values map[string]complete.Predictor
	if p, ok := c.(predictor); ok {
		values = p.predictFlags()
		cc.Args = p.predictArgs()
	}
	cc.Flags = flagPredictors(fs, values)
	if ct, ok := c.(container); ok {
		cc.Sub = make(map[string]*complete.Command)
		for _, sub := range ct.commands() {
			cc.Sub[sub.Name()] = commandCompletion(sub)
		}
	}
	return cc
}

// flagPredictors predicts values of every flag in fs: values gives specific
// predictors, boolean flags take no value and others take anything.
func flagPredictors(fs *flag.FlagSet, values map[string]complete.Predictor) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if p, ok := values[f.Name]; ok {
			flags[f.Name] = p
			return
		}
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[f.Name] = predict.Nothing
			return
		}
		flags[f.Name] = predict.Something
	})
	return flags
}

func kinds() predict.Set {
	var s predict.Set
	for _, k := range ledger.Kinds {
		s = append(s, strings.ToLower(string(k)))
	}
	return s
}

func statuses() predict.Set {
	var s predict.Set
	for _, st := range ledger.Statuses {
		s = append(s, strings.ToLower(string(st)))
	}
	return s
}

func (*txCmd) predictFlags() map[string]complete.Predictor {
	return map[string]complete.Predictor{"k": kinds()}
}
func (*txCmd) predictArgs() complete.Predictor { return predict.Nothing }

func (*reportCmd) predictFlags() map[string]complete.Predictor {
	return map[string]complete.Predictor{"o": predict.Files("*.md")}
}
func (*reportCmd) predictArgs() complete.Predictor { return predict.Nothing }

func (*taskAddCmd) predictFlags() map[string]complete.Predictor {
	return map[string]complete.Predictor{"s": statuses()}
}
func (*taskAddCmd) predictArgs() complete.Predictor { return predict.Nothing }

func (*taskStatusCmd) predictFlags() map[string]complete.Predictor { return nil }
func (*taskStatusCmd) predictArgs() complete.Predictor          { return statuses() }

func (*adminTxCmd) predictFlags() map[string]complete.Predictor {
	return map[string]complete.Predictor{"k": kinds()}
}
func (*adminTxCmd) predictArgs() complete.Predictor { return predict.Something }

func (*topicCmd) predictFlags() map[string]complete.Predictor { return nil }
func (*topicCmd) predictArgs() complete.Predictor {
	topics, err := docs.Names()
	if err != nil {
		return predict.Nothing
	}
	return predict.Set(topics)
}

package cmd

import (
	"bufio"
	"context"
	"math/rand"
	"os"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jk-89/incremental-strongly-connected-components/pkg/common"
	"github.com/jk-89/incremental-strongly-connected-components/pkg/graph"
	"github.com/jk-89/incremental-strongly-connected-components/pkg/scc"
)

// Seed of the process-wide PRNG, fixed for reproducible runs.
const rngSeed = 123

// Execute is the entry point to running the CLI
func Execute(ctx context.Context, version string) {
	rootCmd := &cobra.Command{
		Use:          "incremental-scc <algorithm> <edge_file>",
		Short:        "Maintain strongly connected components of a directed graph under edge insertions.",
		Args:         cobra.ExactArgs(2),
		RunE:         newRunAction(ctx),
		Version:      version,
		SilenceUsage: true,
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRunAction(ctx context.Context) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		algorithmName := args[0]
		edgeFile := args[1]

		rng := rand.New(rand.NewSource(rngSeed))

		var edges []graph.Edge
		var algorithm scc.Algorithm

		readEdges := func(_ context.Context) error {
			var err error
			edges, err = readEdgesFromFile(edgeFile)
			return err
		}
		buildAlgorithm := func(_ context.Context) error {
			noVertices := maximumVertexID(edges) + 1
			log.Debugf("running %s on %d vertices and %d edges", algorithmName, noVertices, len(edges))
			var err error
			algorithm, err = scc.New(algorithmName, noVertices, rng)
			return err
		}
		runAlgorithm := func(ctx context.Context) error {
			algorithm.Run(ctx, edges)
			return nil
		}
		printSCCs := func(_ context.Context) error {
			algorithm.PrintSCCs(os.Stdout, maximumVertexID(edges)+1)
			return nil
		}

		return common.NewPipelineExecutor(
			readEdges,
			buildAlgorithm,
			runAlgorithm,
			printSCCs,
		)(ctx)
	}
}

// readEdgesFromFile parses whitespace-separated decimal id pairs, one
// edge per token pair.
func readEdgesFromFile(filename string) ([]graph.Edge, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening file %s", filename)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Split(bufio.ScanWords)

	var edges []graph.Edge
	var tokens []int
	for scanner.Scan() {
		token, err := strconv.Atoi(scanner.Text())
		if err != nil {
			return nil, errors.Wrapf(err, "malformed vertex id in %s", filename)
		}
		tokens = append(tokens, token)
		if len(tokens) == 2 {
			edges = append(edges, graph.Edge{U: tokens[0], V: tokens[1]})
			tokens = tokens[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "error reading file %s", filename)
	}

	return edges, nil
}

func maximumVertexID(edges []graph.Edge) int {
	maxID := 0
	for _, edge := range edges {
		maxID = max(maxID, max(edge.U, edge.V))
	}
	return maxID
}

package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/nkmr-lab/meichaku/pkg/corpus"
	"github.com/nkmr-lab/meichaku/pkg/crf"
	"github.com/nkmr-lab/meichaku/pkg/patterns"
)

func main() {
	corpusFlag := flag.String("corpus", "", "Path to a JSONL training corpus")
	outFlag := flag.String("out", "model.json", "Path to write the trained model")
	algoFlag := flag.String("algorithm", string(crf.AlgorithmAP), "Training algorithm: lbfgs, l2sgd, ap, pa, arow")
	c1Flag := flag.Float64("c1", 0, "L1 coefficient (recorded; no algorithm applies an L1 penalty)")
	c2Flag := flag.Float64("c2", 1.0, "L2 coefficient (lbfgs, l2sgd); step cap for pa, rate 1/(1+c2) for arow")
	itersFlag := flag.Int("max-iterations", 100, "Maximum training iterations")
	flag.Parse()

	if *corpusFlag == "" {
		log.Fatal("Please provide -corpus")
	}

	examples, err := corpus.Load(*corpusFlag)
	if err != nil {
		log.Fatalf("Failed to load corpus: %v", err)
	}
	fmt.Printf("Loaded %d training examples from %s\n", len(examples), *corpusFlag)

	trainer := crf.NewTrainer(crf.Algorithm(*algoFlag))
	trainer.C1 = *c1Flag
	trainer.C2 = *c2Flag
	trainer.MaxIterations = *itersFlag

	lib := patterns.New(nil)
	var skipped int
	for i, ex := range examples {
		lines, gold, err := corpus.ToTrainingSequence(ex, lib)
		if err != nil {
			log.Printf("Warning: skipping example %d: %v", i, err)
			skipped++
			continue
		}
		if err := trainer.AddSequence(lines, gold); err != nil {
			log.Printf("Warning: skipping example %d: %v", i, err)
			skipped++
			continue
		}
	}
	fmt.Printf("Registered %d sequences (%d skipped)\n", len(examples)-skipped, skipped)

	fmt.Printf("Training with algorithm=%s c1=%g c2=%g max-iterations=%d...\n",
		*algoFlag, *c1Flag, *c2Flag, *itersFlag)
	model, err := trainer.Train()
	if err != nil {
		log.Fatalf("Training failed: %v", err)
	}

	if err := model.Save(*outFlag); err != nil {
		log.Fatalf("Failed to save model: %v", err)
	}
	fmt.Printf("Model saved to %s\n", *outFlag)
}

package main

import (
	"context"
	"log"

	"github.com/comfforts/logger"
	tr "github.com/hankgalt/translator"
	"github.com/hankgalt/translator/pkg/domain"
)

func main() {
	l := logger.GetSlogLogger()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = logger.WithLogger(ctx, l)

	translator, err := tr.NewSin2EngTranslator(ctx, domain.Sin2EngConfig{
		WeightDir: "../weights",
	})
	if err != nil {
		log.Fatal(err)
	}
	defer translator.Close(ctx)

	for _, text := range []string{"කොහොමද?", "මම ගෙදර යනවා."} {
		english, err := translator.Translate(ctx, text)
		if err != nil {
			log.Fatal(err)
		}
		l.Info("translated", "sinhala", text, "english", english)
	}
}

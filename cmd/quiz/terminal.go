package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"detran-quiz/internal/dto"
	"detran-quiz/internal/quizsession"
)

// catalogAPI is what the terminal needs besides the session calls.
type catalogAPI interface {
	quizsession.API
	Topics(ctx context.Context) ([]dto.TopicResponse, error)
	Subtopics(ctx context.Context, topicID int64) ([]dto.SubtopicResponse, error)
}

type terminal struct {
	api    catalogAPI
	userID string
	in     *bufio.Scanner
	out    io.Writer
}

const submitWait = 3 * time.Second

func (t *terminal) run(ctx context.Context) {
	for {
		t.printf("\n=== Simulado DETRAN ===\n1) Simulado geral\n2) Estudar por tópico\nq) Sair\n> ")
		choice, ok := t.readLine()
		if !ok {
			return
		}
		switch strings.ToLower(choice) {
		case "1":
			t.quiz(ctx, quizsession.ModeAll, 0)
		case "2":
			t.topics(ctx)
		case "q":
			return
		}
	}
}

func (t *terminal) topics(ctx context.Context) {
	topics, err := t.api.Topics(ctx)
	if err != nil {
		t.showError(err)
		return
	}

	t.printf("\nTópicos:\n")
	for i, tp := range topics {
		icon := ""
		if tp.Icon != nil {
			icon = *tp.Icon + " "
		}
		t.printf("%d) %s%s\n", i+1, icon, tp.Name)
	}
	idx, ok := t.readIndex(len(topics))
	if !ok {
		return
	}
	t.subtopics(ctx, topics[idx])
}

func (t *terminal) subtopics(ctx context.Context, topic dto.TopicResponse) {
	subs, err := t.api.Subtopics(ctx, topic.ID)
	if err != nil {
		t.showError(err)
		return
	}
	if len(subs) == 0 {
		t.quiz(ctx, quizsession.ModeTopic, topic.ID)
		return
	}

	t.printf("\n%s:\n0) Tópico inteiro\n", topic.Name)
	for i, st := range subs {
		t.printf("%d) %s\n", i+1, st.Name)
	}
	t.printf("> ")
	line, ok := t.readLine()
	if !ok {
		return
	}
	if line == "0" {
		t.quiz(ctx, quizsession.ModeTopic, topic.ID)
		return
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(subs) {
		return
	}
	t.quiz(ctx, quizsession.ModeSubtopic, subs[n-1].ID)
}

func (t *terminal) quiz(ctx context.Context, mode quizsession.Mode, id int64) {
	t.printf("\nCarregando questões...\n")
	s := quizsession.New(t.api, t.userID)
	_ = s.Start(ctx, mode, id)

	for {
		v := s.View()
		switch v.State {
		case quizsession.StateError:
			t.showError(v.Err)
			return
		case quizsession.StateEmpty:
			t.printf("\nNenhuma questão disponível. Você já acertou todas!\n")
			return
		case quizsession.StateFinished:
			t.printf("\nFinalizado! Acertos: %d  Erros: %d\n", v.Stats.Correct, v.Stats.Wrong)
			return
		case quizsession.StateReady:
			if !t.ask(ctx, s, v) {
				return
			}
		case quizsession.StateAnswered:
			t.printf("\nEnter para continuar...")
			if _, ok := t.readLine(); !ok {
				return
			}
			if _, err := s.Next(); err != nil {
				t.showError(err)
				return
			}
		default:
			return
		}
	}
}

// ask renders the current question and records one answer. It returns false when input ends.
func (t *terminal) ask(ctx context.Context, s *quizsession.Session, v quizsession.View) bool {
	q := v.Question
	t.printf("\nQuestão %d de %d   (acertos %d, erros %d)\n", v.Index+1, v.Total, v.Stats.Correct, v.Stats.Wrong)
	if q.ImageURL != nil {
		t.printf("[imagem: %s]\n", *q.ImageURL)
	}
	t.printf("%s\n", q.QuestionText)
	for i, opt := range q.Options {
		t.printf("  %c) %s\n", 'A'+i, opt)
	}

	for {
		t.printf("> ")
		line, ok := t.readLine()
		if !ok {
			return false
		}
		option, valid := optionIndex(line, len(q.Options))
		if !valid {
			t.printf("Escolha uma alternativa de A a %c.\n", 'A'+len(q.Options)-1)
			continue
		}

		results, err := s.Select(ctx, option)
		if err != nil {
			t.showError(err)
			return false
		}
		if option == q.CorrectOption {
			t.printf("\n✔ Correto!\n")
		} else {
			t.printf("\n✘ Incorreto. Resposta certa: %c) %s\n", 'A'+q.CorrectOption, q.Options[q.CorrectOption])
		}
		t.printf("Explicação: %s\nDica: %s\n", q.Explanation, q.TrickTip)

		select {
		case res := <-results:
			if res.Err != nil {
				t.printf("(não foi possível salvar o progresso: %v)\n", res.Err)
			}
		case <-time.After(submitWait):
		}
		return true
	}
}

func (t *terminal) showError(err error) {
	t.printf("\nOps! Ocorreu um erro.\n%v\n", err)
}

func (t *terminal) readIndex(n int) (int, bool) {
	t.printf("> ")
	line, ok := t.readLine()
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(line)
	if err != nil || i < 1 || i > n {
		return 0, false
	}
	return i - 1, true
}

func (t *terminal) readLine() (string, bool) {
	if !t.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(t.in.Text()), true
}

func (t *terminal) printf(format string, args ...interface{}) {
	fmt.Fprintf(t.out, format, args...)
}

// optionIndex accepts a letter (a-d) or a 1-based number.
func optionIndex(input string, count int) (int, bool) {
	input = strings.ToLower(strings.TrimSpace(input))
	if len(input) == 1 && input[0] >= 'a' && int(input[0]-'a') < count {
		return int(input[0] - 'a'), true
	}
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= count {
		return n - 1, true
	}
	return 0, false
}

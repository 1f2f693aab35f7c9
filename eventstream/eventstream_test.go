/*
 * MIT License
 *
 * Copyright (c) 2024-2026 Loom Labs
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package eventstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(sub Subscriber) []any {
	var payloads []any
	for message := range sub.Iterator() {
		payloads = append(payloads, message.Payload())
	}
	return payloads
}

func TestEventsStream(t *testing.T) {
	t.Run("routes by topic", func(t *testing.T) {
		broker := New()
		defer broker.Close()

		apples := broker.AddSubscriber()
		broker.Subscribe(apples, "apples")
		oranges := broker.AddSubscriber()
		broker.Subscribe(oranges, "oranges")

		broker.Publish("apples", "gala")
		broker.Publish("oranges", "navel")
		broker.Publish("apples", "fuji")

		assert.Equal(t, []any{"gala", "fuji"}, collect(apples))
		assert.Equal(t, []any{"navel"}, collect(oranges))
	})

	t.Run("counts subscribers per topic", func(t *testing.T) {
		broker := New()
		defer broker.Close()

		sub := broker.AddSubscriber()
		broker.Subscribe(sub, "apples")
		broker.Subscribe(sub, "oranges")
		require.Equal(t, 1, broker.SubscribersCount("apples"))

		broker.Unsubscribe(sub, "apples")
		require.Equal(t, 0, broker.SubscribersCount("apples"))
		require.Equal(t, 1, broker.SubscribersCount("oranges"))
		assert.ElementsMatch(t, []string{"oranges"}, sub.Topics())
	})

	t.Run("removed subscribers receive nothing", func(t *testing.T) {
		broker := New()
		defer broker.Close()

		sub := broker.AddSubscriber()
		broker.Subscribe(sub, "apples")
		broker.RemoveSubscriber(sub)
		broker.Publish("apples", "gala")

		assert.Empty(t, collect(sub))
		assert.False(t, sub.Active())
	})

	t.Run("publish to a topic without subscribers is a no-op", func(t *testing.T) {
		broker := New()
		defer broker.Close()
		broker.Publish("void", "lost")
	})
}

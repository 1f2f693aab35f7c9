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

package actor

import (
	"github.com/loomlabs/loom/log"
)

// rootGuardian sits at the top of the supervision tree. Anything that
// reaches it has exhausted every policy below; the system treats that as
// fatal before this actor ever sees a message.
func rootGuardian(logger log.Logger) Factory {
	return Fn(func(rctx *ReceiveContext) {
		switch msg := rctx.Message().(type) {
		case *ChildFailed:
			logger.Errorf("root guardian received terminal failure of actor=(%s): %v", msg.ActorName, msg.Reason)
		case *Terminated:
			logger.Infof("root guardian observed termination of actor=(%s)", msg.ActorName)
		default:
			logger.Warnf("root guardian dropped unexpected %T", msg)
		}
	})
}

// userGuardian parents all user-spawned actors. Terminal child failures
// escalated to it are contained here: the notice is logged and published,
// the rest of the system keeps running.
func userGuardian(logger log.Logger) Factory {
	return Fn(func(rctx *ReceiveContext) {
		switch msg := rctx.Message().(type) {
		case *ChildFailed:
			logger.Warnf("actor=(%s) stopped after exhausting its restart budget: %v", msg.ActorName, msg.Reason)
		case *Terminated:
			logger.Debugf("actor=(%s) terminated", msg.ActorName)
		default:
			logger.Warnf("user guardian dropped unexpected %T", msg)
		}
	})
}

// noSenderActor backs the PID used as sender for messages originating
// outside any actor. It never processes anything but termination notices.
func noSenderActor(logger log.Logger) Factory {
	return Fn(func(rctx *ReceiveContext) {
		logger.Debugf("no-sender dropped %T", rctx.Message())
	})
}

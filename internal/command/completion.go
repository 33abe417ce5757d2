// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/lorectl/internal/meta"
)

const bashCompletionScript = `# bash completion for lorectl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_lorectl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "lq dq eq ei put completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --filter -f --local -l --output -o --padding --sort -s --titles -t --schema --tldr"
    local repo="--repo -r --region --passphrase -p"
    local norm="--ignore-whitespace -w --ignore-case -i --json-normalize -j"

    # RepoDir is the first non-flag after the subcommand.
    local have_repo=0
    local idx=2
    while [[ $idx -lt $COMP_CWORD ]]; do
        if [[ ${COMP_WORDS[$idx]} != -* ]]; then
            have_repo=1
            break
        fi
        ((idx++))
    done

    case "$cmd" in
        lq)
            local opts="$common $repo $norm"
            ;;
        dq)
            local opts="$common $repo $norm --pick --status --summary"
            ;;
        eq)
            local opts="$common $repo $norm --content --context --drill -d --expr -e --lines --preview --refresh --side"
            ;;
        ei)
            local opts="$repo $norm --color -c --context --history --lines --preview --tldr"
            ;;
        put)
            local opts="$repo --seal --tldr"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
            return 0
            ;;
        --status)
            COMPREPLY=( $(compgen -W "added removed changed same" -- "$cur") )
            return 0
            ;;
        --side)
            COMPREPLY=( $(compgen -W "a b" -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* || $have_repo -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # The optional RepoDir positional.
    COMPREPLY=( $(compgen -o dirnames -- "$cur") )
    return 0
}

complete -F _lorectl lorectl
`

const zshCompletionScript = `#compdef lorectl

_lorectl() {
  local -a cmds
  cmds=(
    'lq:list collections and snapshots'
    'dq:diff two snapshots'
    'eq:inspect one entry across two snapshots'
    'ei:interactive entry inspector'
    'put:store a collection in the repository'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
    '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
    '(-c --color)'{-c,--color}'[enable colored text]'
    '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
    '(-l --local)'{-l,--local}'[show local timestamps]'
    '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
    '--padding[spaces between columns]:padding'
    '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
    '(-t --titles)'{-t,--titles}'[show titles]'
    '--schema[dump row attributes]'
    '--tldr[show tldr page]'
  )

  local -a repo
  repo=(
    '(-r --repo)'{-r,--repo}'[repository]:repo:_directories'
    '--region[S3 region]:region'
    '(-p --passphrase)'{-p,--passphrase}'[passphrase for sealed collections]:passphrase'
  )

  local -a norm
  norm=(
    '(-w --ignore-whitespace)'{-w,--ignore-whitespace}'[collapse whitespace]'
    '(-i --ignore-case)'{-i,--ignore-case}'[compare case-insensitively]'
    '(-j --json-normalize)'{-j,--json-normalize}'[canonicalize JSON content]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'lorectl commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    lq)
      _arguments -C $common $repo $norm '::RepoDir:_directories'
      ;;
    dq)
      _arguments -C $common $repo $norm \
        '--pick[pick snapshots interactively]' \
        '--status[statuses to show]:status:(added removed changed same)' \
        '--summary[only show counts]' \
        '::RepoDir:_directories'
      ;;
    eq)
      _arguments -C $common $repo $norm \
        '--content[diff the entry content]' \
        '--context[diff context lines]:lines' \
        '(-d --drill)'{-d,--drill}'[gjson path into JSON content]:path' \
        '(-e --expr)'{-e,--expr}'[HCL expression over the entry]:expr' \
        '--lines[line diff only]' \
        '--preview[preview length]:length' \
        '--refresh[re-read both snapshots]' \
        '--side[side to drill]:side:(a b)' \
        '::RepoDir:_directories'
      ;;
    ei)
      _arguments -C $repo $norm \
        '(-c --color)'{-c,--color}'[color diff output]' \
        '--context[diff context lines]:lines' \
        '--history[history file]:file:_files' \
        '--lines[line diff only]' \
        '--preview[preview length]:length' \
        '::RepoDir:_directories'
      ;;
    put)
      _arguments -C $repo \
        '--seal[store sealed]' \
        '::RepoDir:_directories' \
        ':name:' \
        ':file:_files'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common '*:directory:_directories'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _lorectl lorectl
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	if shell == "" {
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	switch shell {
	case "bash":
		fmt.Fprint(Stdout(cmd), bashCompletionScript)
	case "zsh":
		fmt.Fprint(Stdout(cmd), zshCompletionScript)
	default:
		fmt.Fprintln(os.Stderr, "usage: lorectl completion [bash|zsh]")
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "lorectl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
